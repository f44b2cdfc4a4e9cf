package texprinter

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// ErrQuestionNotFound is returned when a question file does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// ErrInvalidQuestionID is returned for identifiers that are not all digits.
var ErrInvalidQuestionID = errors.New("invalid question id")

const formatMarkdown = "markdown"

// questionFile is the on-disk form of a Question, in YAML or JSON.
type questionFile struct {
	ID       string     `yaml:"id"`
	Format   string     `yaml:"format"`
	Question postFile   `yaml:"question"`
	Answers  []postFile `yaml:"answers"`
}

type postFile struct {
	Title    string        `yaml:"title"`
	Body     string        `yaml:"body"`
	Format   string        `yaml:"format"`
	Author   userFile      `yaml:"author"`
	Date     string        `yaml:"date"`
	Votes    int           `yaml:"votes"`
	Accepted bool          `yaml:"accepted"`
	Comments []commentFile `yaml:"comments"`
}

type userFile struct {
	Name       string `yaml:"name"`
	Reputation string `yaml:"reputation"`
}

type commentFile struct {
	Author string `yaml:"author"`
	Date   string `yaml:"date"`
	Votes  int    `yaml:"votes"`
	Body   string `yaml:"body"`
	Format string `yaml:"format"`
}

// LoadQuestion reads a question with its answers from a YAML or JSON file.
// Bodies with format "markdown" are converted to HTML. A missing file gives
// ErrQuestionNotFound.
func LoadQuestion(path string) (*Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, path)
		}
		return nil, err
	}
	return ParseQuestion(data)
}

// ParseQuestion decodes a question document.
func ParseQuestion(data []byte) (*Question, error) {
	var qf questionFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing question: %w", err)
	}
	if qf.ID != "" && !ValidQuestionID(qf.ID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuestionID, qf.ID)
	}

	q := &Question{
		ID:       qf.ID,
		Question: qf.Question.post(qf.Format),
	}
	for _, a := range qf.Answers {
		q.Answers = append(q.Answers, a.post(qf.Format))
	}
	return q, nil
}

func (p postFile) post(defaultFormat string) Post {
	post := Post{
		Title:    p.Title,
		Body:     body(p.Body, p.Format, defaultFormat),
		Author:   User{Name: p.Author.Name, Reputation: p.Author.Reputation},
		Date:     p.Date,
		Votes:    p.Votes,
		Accepted: p.Accepted,
	}
	for _, c := range p.Comments {
		post.Comments = append(post.Comments, NewComment(c.Author, c.Date, c.Votes, body(c.Body, c.Format, defaultFormat)))
	}
	return post
}

func body(s, format, defaultFormat string) string {
	if format == "" {
		format = defaultFormat
	}
	if strings.EqualFold(format, formatMarkdown) {
		return MarkdownToHTML(s)
	}
	return s
}

var codeClass = regexp.MustCompile(`<pre><code class="([^"]*)">`)

// MarkdownToHTML renders markdown the way the site renders post bodies, with
// the code block language on the pre element.
func MarkdownToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	out := string(markdown.ToHTML([]byte(md), p, r))
	out = codeClass.ReplaceAllString(out, `<pre class="$1"><code>`)
	return strings.TrimSpace(out)
}
