package texprinter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const teXPreamble = `\documentclass{article}
\usepackage[T1]{fontenc}
\usepackage[utf8]{inputenc}
\usepackage{listings}
\usepackage{graphicx}
\usepackage{hyperref}

\lstnewenvironment{` + listingEnv + `}{\lstset{basicstyle=\ttfamily\small,breaklines=true,columns=fullflexible}}{}
\lstset{basicstyle=\ttfamily}

`

// teXText escapes plain text such as titles and names. Post bodies are
// transpiled markup and are not escaped.
var teXText = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`&`, `\&`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

// GenerateTeX writes a complete article for q to w. The images referenced by
// the document are downloaded by tr as a side effect.
func GenerateTeX(ctx context.Context, w io.Writer, q *Question, tr *Transpiler) ([]FetchWarning, error) {
	g := &teXDocument{ctx: ctx, tr: tr}
	g.b.WriteString(teXPreamble)
	g.b.WriteString("\\begin{document}\n\n")

	g.post(q.Question, askedBy(q.Question), "question")

	answers := q.SortedAnswers()
	if len(answers) == 0 {
		g.b.WriteString("\\section*{Sorry, this question has no answers yet.}\n\n")
	}
	for i, answer := range answers {
		answer.Title = "Answer #" + strconv.Itoa(i+1)
		g.post(answer, answeredBy(answer), "answer")
	}
	g.b.WriteString("\\end{document}\n")

	if g.err != nil {
		return g.warnings, g.err
	}
	_, err := io.WriteString(w, g.b.String())
	return g.warnings, err
}

type teXDocument struct {
	ctx      context.Context
	tr       *Transpiler
	b        strings.Builder
	warnings []FetchWarning
	err      error
}

func (g *teXDocument) body(fragment string) {
	if g.err != nil {
		return
	}
	s, warnings, err := g.tr.ToTeX(g.ctx, fragment)
	g.warnings = append(g.warnings, warnings...)
	if err != nil {
		g.err = err
		return
	}
	g.b.WriteString(strings.TrimRight(s, "\n"))
	g.b.WriteString("\n\n")
}

func (g *teXDocument) post(p Post, byline, kind string) {
	fmt.Fprintf(&g.b, "\\section*{%s}\n\\textit{%s}\n\n\\noindent\\rule{\\textwidth}{0.4pt}\n\n",
		teXText.Replace(p.Title), teXText.Replace(byline))
	g.body(p.Body)

	if len(p.Comments) > 0 {
		fmt.Fprintf(&g.b, "\\subsection*{This %s has %d %s:}\n\n", kind, len(p.Comments),
			plural(len(p.Comments), "comment", "comments"))
		for _, c := range p.Comments {
			g.body(c.Body)
			fmt.Fprintf(&g.b, "\\begin{flushright}\\small\\textit{%s}\\end{flushright}\n\n", teXText.Replace(commentBy(c)))
		}
	}
	g.b.WriteString("\\noindent\\rule{\\textwidth}{0.4pt}\n\n")
}
