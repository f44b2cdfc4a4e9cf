package texprinter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerateTeX(t *testing.T) {
	q := &Question{
		Question: Post{
			Title:    "Why 100% & more?",
			Body:     "<p>Body with <code>\\x</code></p>",
			Author:   User{Name: "alice", Reputation: "5"},
			Date:     "d",
			Comments: []Comment{{Author: "bob", Date: "d2", Votes: 1, Body: "thanks"}},
		},
		Answers: []Post{
			{Body: "<p>second</p>", Votes: 3},
			{Body: "<p>first</p>", Votes: 1, Accepted: true},
		},
	}
	var buf bytes.Buffer
	warnings, err := GenerateTeX(context.Background(), &buf, q, newTestTranspiler(t, DefaultOptions()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	out := buf.String()

	for _, want := range []string{
		`\documentclass{article}`,
		`\usepackage{listings}`,
		`\usepackage{hyperref}`,
		`\lstnewenvironment{TeXPrinterListing}`,
		`\section*{Why 100\% \& more?}`,
		`\textit{Asked by alice (5) on d (0 votes)}`,
		`Body with \lstinline|\x|`,
		`\subsection*{This question has 1 comment:}`,
		`\textit{bob on d2 (1 vote)}`,
		`\section*{Answer \#1}`,
		`- Marked as accepted.`,
		`\end{document}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Fatalf("expected the accepted answer first")
	}
	if strings.Contains(out, "no answers yet") {
		t.Fatalf("unexpected no-answers notice")
	}
}

func TestGenerateTeXNoAnswers(t *testing.T) {
	var buf bytes.Buffer
	q := &Question{Question: Post{Title: "T", Body: "<p>B</p>"}}
	if _, err := GenerateTeX(context.Background(), &buf, q, newTestTranspiler(t, DefaultOptions())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `\section*{Sorry, this question has no answers yet.}`) {
		t.Fatalf("expected no-answers notice in\n%s", buf.String())
	}
}

func TestGenerateTeXAbortsWithoutOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.ImageRewrite = RewriteLiteral
	u := "http://127.0.0.1:1/a.png"
	q := &Question{Question: Post{Title: "T", Body: `<img src="` + u + `" /> ` + u}}
	var buf bytes.Buffer
	_, err := GenerateTeX(context.Background(), &buf, q, newTestTranspiler(t, opts))
	if !errors.Is(err, ErrLoopGuard) {
		t.Fatalf("expected ErrLoopGuard got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %d bytes", buf.Len())
	}
}
