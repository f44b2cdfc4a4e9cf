package texprinter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Appender receives the element sequence of a document in order.
type Appender interface {
	Append(Element) error
}

var (
	titleFont   = Font{Family: "Helvetica", Style: "B", Size: 16, Color: ColorBlack}
	bylineFont  = Font{Family: "Helvetica", Style: "I", Size: 10, Color: ColorDarkGray}
	headingFont = Font{Family: "Helvetica", Style: "B", Size: 12, Color: ColorBlack}
)

const commentFontSize = 10

// Assembler lays out a question and its answers.
type Assembler struct {
	Out        Appender
	Transpiler *Transpiler
	Logger     *slog.Logger
}

// Assemble appends the whole document to a.Out. Image warnings are collected
// and returned; any error aborts the document.
func (a *Assembler) Assemble(ctx context.Context, q *Question) ([]FetchWarning, error) {
	logger := a.Logger
	if logger == nil {
		logger = discardLogger()
	}
	d := &assembly{ctx: ctx, out: a.Out, tr: a.Transpiler, logger: logger}

	d.post(q.Question, askedBy(q.Question), "question")
	d.add(Separator{}, LineBreak{})

	answers := q.SortedAnswers()
	if len(answers) == 0 {
		logger.Info("question has no answers")
		d.add(textParagraph("Sorry, this question has no answers yet.", titleFont, AlignLeft))
	}
	for i, answer := range answers {
		logger.Info("adding answer", "answer", i+1)
		answer.Title = "Answer #" + strconv.Itoa(i+1)
		d.post(answer, answeredBy(answer), "answer")
		d.add(Separator{}, LineBreak{}, LineBreak{})
	}
	return d.warnings, d.err
}

type assembly struct {
	ctx      context.Context
	out      Appender
	tr       *Transpiler
	logger   *slog.Logger
	warnings []FetchWarning
	err      error
}

func (d *assembly) add(elements ...Element) {
	for _, e := range elements {
		if d.err != nil {
			return
		}
		d.err = d.out.Append(e)
	}
}

func (d *assembly) body(fragment string, fontSize float64) {
	if d.err != nil {
		return
	}
	elements, warnings, err := d.tr.ToElements(d.ctx, fragment)
	d.warnings = append(d.warnings, warnings...)
	if err != nil {
		d.err = err
		return
	}
	if fontSize > 0 {
		resize(elements, fontSize)
	}
	d.add(elements...)
}

func (d *assembly) post(p Post, byline, kind string) {
	d.logger.Debug("adding post", "title", p.Title, "kind", kind)
	d.add(
		textParagraph(p.Title, titleFont, AlignLeft),
		textParagraph(byline, bylineFont, AlignLeft),
		Separator{},
	)
	d.body(p.Body, 0)

	if len(p.Comments) == 0 {
		return
	}
	d.add(textParagraph(fmt.Sprintf("This %s has %d %s:", kind, len(p.Comments),
		plural(len(p.Comments), "comment", "comments")), headingFont, AlignLeft))
	for _, c := range p.Comments {
		d.body("<span>"+c.Body+"</span>", commentFontSize)
		d.add(textParagraph(commentBy(c), bylineFont, AlignRight))
	}
}

func textParagraph(s string, f Font, align Alignment) *Paragraph {
	return &Paragraph{Chunks: []Chunk{{Text: s, Font: f}}, Align: align}
}

// resize sets the font size of every text chunk in elements.
func resize(elements []Element, size float64) {
	for _, e := range elements {
		switch e := e.(type) {
		case *Paragraph:
			for i := range e.Chunks {
				e.Chunks[i].Font.Size = size
			}
		case *List:
			for i := range e.Items {
				for j := range e.Items[i].Paragraph.Chunks {
					e.Items[i].Paragraph.Chunks[j].Font.Size = size
				}
			}
		}
	}
}

func votes(n int) string {
	return strconv.Itoa(n) + " " + plural(n, "vote", "votes")
}

func askedBy(p Post) string {
	return fmt.Sprintf("Asked by %s (%s) on %s (%s)", p.Author.Name, p.Author.Reputation, p.Date, votes(p.Votes))
}

func answeredBy(p Post) string {
	accepted := ""
	if p.Accepted {
		accepted = " - Marked as accepted."
	}
	return fmt.Sprintf("Answered by %s (%s) on %s%s (%s)", p.Author.Name, p.Author.Reputation, p.Date, accepted, votes(p.Votes))
}

func commentBy(c Comment) string {
	return fmt.Sprintf("%s on %s (%s)", c.Author, c.Date, votes(c.Votes))
}
