package texprinter

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// rewriteStep is one named text substitution. Steps run in slice order and a
// step may rely on the output of the steps before it.
type rewriteStep struct {
	name  string
	apply func(string) (string, error)
}

func runSteps(s string, steps []rewriteStep) (string, error) {
	for _, step := range steps {
		var err error
		if s, err = step.apply(s); err != nil {
			return s, err
		}
	}
	return s, nil
}

func replacing(name string, pairs ...string) rewriteStep {
	r := strings.NewReplacer(pairs...)
	return rewriteStep{name: name, apply: func(s string) (string, error) {
		return r.Replace(s), nil
	}}
}

func replacingRegexp(name string, re *regexp.Regexp, repl string) rewriteStep {
	return rewriteStep{name: name, apply: func(s string) (string, error) {
		return re.ReplaceAllString(s, repl), nil
	}}
}

const (
	listingEnv = "TeXPrinterListing"
	courierTag = `<font face="Courier">`
)

var (
	preCodeOpen  = regexp.MustCompile(`<pre([^>]*)><code>`)
	preOpen      = regexp.MustCompile(`<pre[^>]*>`)
	inlineCode   = regexp.MustCompile(`(?s)<code>(.*?)</code>`)
	altAttr      = regexp.MustCompile(`alt="[^"]*"\s*`)
	relAttr      = regexp.MustCompile(`rel="[^"]*"\s*`)
	spuriousSpan = regexp.MustCompile(`"\s>`)
)

// normalizeNewlines turns CRLF and CR into LF, then LF into lineBreak.
func normalizeNewlines(lineBreak string) rewriteStep {
	return replacing("newlines", "\r\n", lineBreak, "\r", lineBreak, "\n", lineBreak)
}

// unwrapCodeBlocks turns <pre><code>...</code></pre> into <pre>...</pre>.
// The pre attributes survive when keepAttrs is set.
func unwrapCodeBlocks(keepAttrs bool) rewriteStep {
	repl := "<pre>"
	if keepAttrs {
		repl = "<pre$1>"
	}
	return rewriteStep{name: "code-blocks", apply: func(s string) (string, error) {
		s = preCodeOpen.ReplaceAllString(s, repl)
		return strings.ReplaceAll(s, "</code></pre>", "</pre>"), nil
	}}
}

// lstinlineDelimiters are tried in order; the first one absent from the code wins.
var lstinlineDelimiters = []string{"|", "!", "+", "@", "=", "~"}

func teXInlineCode() rewriteStep {
	return rewriteStep{name: "inline-code", apply: func(s string) (string, error) {
		return inlineCode.ReplaceAllStringFunc(s, func(m string) string {
			code := inlineCode.FindStringSubmatch(m)[1]
			for _, d := range lstinlineDelimiters {
				if !strings.Contains(code, d) {
					return `\lstinline` + d + code + d
				}
			}
			if balancedBraces(code) {
				return `\lstinline{` + code + `}`
			}
			return `\texttt{` + teXAngles.Replace(teXText.Replace(html.UnescapeString(code))) + `}`
		}), nil
	}}
}

// teXAngles keeps decoded angle brackets from being read as tags by the
// later rewrite steps.
var teXAngles = strings.NewReplacer("<", `\textless{}`, ">", `\textgreater{}`)

func balancedBraces(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func pdfInlineCode() rewriteStep {
	return replacing("inline-code", "<code>", courierTag, "</code>", "</font>")
}

// teXMarkup holds the tag rewrites; the order matches the tag nesting the
// later steps expect.
var teXMarkup = []rewriteStep{
	replacing("bold", "<b>", `\textbf{`, "</b>", "}", "<strong>", `\textbf{`, "</strong>", "}"),
	replacing("italic", "<i>", `\textit{`, "</i>", "}"),
	replacing("emphasis", "<em>", `\emph{`, "</em>", "}"),
	replacing("paragraphs", "<p>", "", "</p>", "\n\n"),
	replacing("lists",
		"<ol>", "\\begin{enumerate}\n", "</ol>", "\\end{enumerate}\n",
		"<ul>", "\\begin{itemize}\n", "</ul>", "\\end{itemize}\n"),
	replacing("items", "<li>", `\item `, "</li>", "\n"),
	replacing("blockquote", "<blockquote>", "\\begin{quotation}\n", "</blockquote>", "\\end{quotation}\n"),
	replacingRegexp("listing-open", preOpen, `\begin{`+listingEnv+"}\n"),
	replacing("listing-close", "</pre>", `\end{`+listingEnv+"}\n\n"),
	replacingRegexp("strip-alt", altAttr, ""),
	replacingRegexp("strip-rel", relAttr, ""),
	replacingRegexp("spurious-spaces", spuriousSpan, `">`),
	replacing("self-closing", `"/>`, `" />`, "<br/>", "", "<br />", "", "<br>", ""),
	{name: "anchors", apply: rewriteAnchors},
}

var decodeEntities = rewriteStep{name: "entities", apply: func(s string) (string, error) {
	return html.UnescapeString(s), nil
}}

// tagSpan is the byte range of a run of tokens in the scanned text.
type tagSpan struct {
	start, end int
	repl       string
}

func applySpans(s string, spans []tagSpan) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		b.WriteString(sp.repl)
		last = sp.end
	}
	b.WriteString(s[last:])
	return b.String()
}

func tokenAttr(t html.Token, name string) (string, bool) {
	for _, a := range t.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// scanTokens calls fn for every token of s with its byte offset.
func scanTokens(s string, fn func(tt html.TokenType, tok html.Token, start, end int)) error {
	z := html.NewTokenizer(strings.NewReader(s))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return err
			}
			return nil
		}
		n := len(z.Raw())
		tok := z.Token()
		fn(tt, tok, offset, offset+n)
		offset += n
	}
}

// rewriteAnchors replaces every <a href="...">text</a> with \href{...}{text}.
// An anchor that only wraps an image is unwrapped so the image can become a figure.
func rewriteAnchors(s string) (string, error) {
	var (
		spans   []tagSpan
		open    bool
		start   int
		href    string
		text    strings.Builder
		inner   strings.Builder
		hasImg  bool
		hasText bool
	)
	err := scanTokens(s, func(tt html.TokenType, tok html.Token, from, to int) {
		raw := s[from:to]
		switch {
		case tt == html.StartTagToken && tok.Data == "a" && !open:
			open, start, hasImg, hasText = true, from, false, false
			href, _ = tokenAttr(tok, "href")
			text.Reset()
			inner.Reset()
		case tt == html.EndTagToken && tok.Data == "a" && open:
			open = false
			repl := `\href{` + href + "}{" + text.String() + "}"
			if hasImg && !hasText {
				repl = inner.String()
			}
			spans = append(spans, tagSpan{start: start, end: to, repl: repl})
		case open:
			inner.WriteString(raw)
			switch tt {
			case html.TextToken:
				text.WriteString(raw)
				if strings.TrimSpace(raw) != "" {
					hasText = true
				}
			case html.StartTagToken, html.SelfClosingTagToken:
				if tok.Data == "img" {
					hasImg = true
				}
			}
		}
	})
	if err != nil {
		return s, err
	}
	return applySpans(s, spans), nil
}
