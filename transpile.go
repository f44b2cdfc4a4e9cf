/*
 * TeXPrinter - Q&A posts to TeX and PDF
 * Available at https://github.com/islandoftex/texprinter
 *
 * Copyright © Paulo Cereda and the Island of TeX.
 * Distributed under the New BSD License.
 *
 * Dependencies
 * This package depends on these other packages:
 *
 * fpdf - a PDF document generator with high level support for
 *   text, drawing and images.
 *   Available at https://codeberg.org/go-pdf/fpdf
 *
 * goquery and golang.org/x/net/html - HTML parsing and selection.
 *   Available at https://github.com/PuerkitoBio/goquery
 */

package texprinter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// ImageRewrite selects how img tags are turned into figures in TeX output.
type ImageRewrite int

const (
	// RewriteStructural replaces each img tag in a single tokenizer pass.
	RewriteStructural ImageRewrite = iota
	// RewriteLiteral repeats a search-and-replace of <img src="URL" /> while
	// the image URL still occurs in the text, guarded by a LoopGuard.
	RewriteLiteral
)

// ParseImageRewrite maps "structural" and "literal" to an ImageRewrite.
func ParseImageRewrite(s string) (ImageRewrite, error) {
	switch strings.ToLower(s) {
	case "", "structural":
		return RewriteStructural, nil
	case "literal":
		return RewriteLiteral, nil
	}
	return RewriteStructural, fmt.Errorf("unknown image rewrite %q (available: structural, literal)", s)
}

// Options configures a Transpiler.
type Options struct {
	// BaseURL resolves relative image sources.
	BaseURL string
	// ImageRewrite selects the TeX figure substitution.
	ImageRewrite ImageRewrite
	// FigureScale is the \includegraphics scale.
	FigureScale float64
	// Captions adds \caption{alt} to figures that carry a meaningful alt text.
	Captions bool
	// FetchConcurrency bounds parallel image downloads within one fragment.
	FetchConcurrency int
	// Styles is used for PDF element conversion.
	Styles StyleSheet
}

// DefaultOptions returns the options matching the classic output.
func DefaultOptions() Options {
	return Options{
		ImageRewrite:     RewriteStructural,
		FigureScale:      0.5,
		Captions:         true,
		FetchConcurrency: 4,
		Styles:           DefaultStyleSheet(),
	}
}

// Transpiler converts post and comment fragments of one document into TeX or
// PDF elements. Each image URL is fetched at most once per Transpiler.
type Transpiler struct {
	opts    Options
	base    *url.URL
	fetcher *Fetcher
	logger  *slog.Logger

	mu       sync.Mutex
	fetched  map[string]FetchResult
	prepared map[string]*Image
	pending  []FetchWarning
}

// NewTranspiler returns a Transpiler for one document.
func NewTranspiler(opts Options, fetcher *Fetcher, logger *slog.Logger) (*Transpiler, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if opts.FigureScale <= 0 {
		opts.FigureScale = 0.5
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 1
	}
	if opts.Styles == (StyleSheet{}) {
		opts.Styles = DefaultStyleSheet()
	}
	t := &Transpiler{
		opts:     opts,
		fetcher:  fetcher,
		logger:   logger,
		fetched:  make(map[string]FetchResult),
		prepared: make(map[string]*Image),
	}
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
		}
		t.base = base
	}
	return t, nil
}

// ToTeX converts a fragment to TeX markup and downloads its images. Fatal
// errors wrap ErrLoopGuard or ErrUnreadableFragment; failed downloads are
// reported as warnings.
func (t *Transpiler) ToTeX(ctx context.Context, fragment string) (string, []FetchWarning, error) {
	refs, err := t.images(fragment)
	if err != nil {
		return "", nil, err
	}

	steps := []rewriteStep{
		normalizeNewlines("\n"),
		unwrapCodeBlocks(false),
		teXInlineCode(),
	}
	steps = append(steps, teXMarkup...)
	steps = append(steps, t.figureStep(refs), decodeEntities)

	out, err := runSteps(fragment, steps)
	if err != nil {
		return "", nil, err
	}
	warnings, err := t.fetchAll(ctx, refs)
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// ToElements converts a fragment to PDF elements. Images are fetched,
// converted and scaled; images that cannot be drawn are left out.
func (t *Transpiler) ToElements(ctx context.Context, fragment string) ([]Element, []FetchWarning, error) {
	refs, err := t.images(fragment)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := t.fetchAll(ctx, refs)
	if err != nil {
		return nil, warnings, err
	}

	s, err := runSteps(fragment, []rewriteStep{
		normalizeNewlines("\n"),
		unwrapCodeBlocks(true),
		pdfInlineCode(),
		normalizeNewlines("<br/>"),
	})
	if err != nil {
		return nil, warnings, err
	}
	elements, err := ConvertHTML(ctx, s, t.opts.Styles, t)
	warnings = append(warnings, t.drainWarnings()...)
	if err != nil {
		return nil, warnings, err
	}
	return elements, warnings, nil
}

// ResolveImage implements ImageResolver.
func (t *Transpiler) ResolveImage(ctx context.Context, src string) (*Image, bool) {
	ref := NewImageReference(t.absolute(src), "")
	res, warn, err := t.fetchOnce(ctx, ref)
	if err != nil {
		t.logger.Error("image unavailable, leaving it out", "url", ref.URL, "err", err)
		return nil, false
	}
	if warn != nil {
		t.mu.Lock()
		t.pending = append(t.pending, *warn)
		t.mu.Unlock()
	}

	t.mu.Lock()
	img, ok := t.prepared[res.Path]
	t.mu.Unlock()
	if ok {
		return img, img != nil
	}
	img, err = prepareImage(res.Path)
	if err != nil {
		t.logger.Error("image cannot be drawn, leaving it out", "url", ref.URL, "file", res.Path, "err", err)
		img = nil
	}
	t.mu.Lock()
	t.prepared[res.Path] = img
	t.mu.Unlock()
	return img, img != nil
}

func (t *Transpiler) drainWarnings() []FetchWarning {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.pending
	t.pending = nil
	return w
}

func (t *Transpiler) absolute(src string) string {
	if t.base == nil {
		return src
	}
	u, err := t.base.Parse(src)
	if err != nil {
		return src
	}
	return u.String()
}

// images lists the distinct img sources of the original fragment.
func (t *Transpiler) images(fragment string) ([]ImageReference, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFragment, err)
	}
	var refs []ImageReference
	seen := make(map[string]bool)
	doc.Find("[src]").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "img" {
			return
		}
		src, _ := s.Attr("src")
		abs := t.absolute(src)
		if seen[abs] {
			return
		}
		seen[abs] = true
		alt, _ := s.Attr("alt")
		refs = append(refs, NewImageReference(abs, alt))
	})
	return refs, nil
}

func (t *Transpiler) figure(ref ImageReference) string {
	var b strings.Builder
	b.WriteString("\\begin{figure}[h!]\n\\centering\n")
	fmt.Fprintf(&b, "\\includegraphics[scale=%g]{%s}\n", t.opts.FigureScale, ref.LocalName)
	if t.opts.Captions && meaningfulAlt(ref.AltText) {
		fmt.Fprintf(&b, "\\caption{%s}\n", ref.AltText)
	}
	b.WriteString("\\end{figure}\n")
	return b.String()
}

// meaningfulAlt filters out the editor's default alt texts.
func meaningfulAlt(alt string) bool {
	alt = strings.TrimSpace(alt)
	return alt != "" && !strings.HasPrefix(alt, "enter image") && alt != "alt text"
}

func (t *Transpiler) figureStep(refs []ImageReference) rewriteStep {
	if t.opts.ImageRewrite == RewriteLiteral {
		return rewriteStep{name: "figures", apply: func(s string) (string, error) {
			return t.literalFigures(s, refs)
		}}
	}
	return rewriteStep{name: "figures", apply: func(s string) (string, error) {
		return t.structuralFigures(s, refs)
	}}
}

// literalFigures replaces <img src="URL" /> while URL still occurs in s.
func (t *Transpiler) literalFigures(s string, refs []ImageReference) (string, error) {
	for _, ref := range refs {
		guard := NewLoopGuard()
		pattern := `<img src="` + ref.URL + `" />`
		replacement := t.figure(ref)
		for strings.Contains(s, ref.URL) {
			if err := guard.Tick(); err != nil {
				t.logger.Error("image replacement does not converge", "url", ref.URL, "ticks", guard.Ticks())
				return s, fmt.Errorf("replacing %s: %w", ref.URL, err)
			}
			s = strings.Replace(s, pattern, replacement, 1)
		}
	}
	return s, nil
}

// structuralFigures replaces every img tag of s in one pass.
func (t *Transpiler) structuralFigures(s string, refs []ImageReference) (string, error) {
	byURL := make(map[string]ImageReference, len(refs))
	guards := make(map[string]*LoopGuard, len(refs))
	for _, ref := range refs {
		byURL[ref.URL] = ref
		guards[ref.URL] = NewLoopGuard()
	}

	var (
		spans []tagSpan
		fatal error
	)
	err := scanTokens(s, func(tt html.TokenType, tok html.Token, from, to int) {
		if fatal != nil || (tt != html.StartTagToken && tt != html.SelfClosingTagToken) || tok.Data != "img" {
			return
		}
		src, _ := tokenAttr(tok, "src")
		ref, ok := byURL[t.absolute(src)]
		if !ok {
			t.logger.Warn("dropping image without a known source", "src", src)
			spans = append(spans, tagSpan{start: from, end: to})
			return
		}
		if err := guards[ref.URL].Tick(); err != nil {
			fatal = fmt.Errorf("replacing %s: %w", ref.URL, err)
			return
		}
		spans = append(spans, tagSpan{start: from, end: to, repl: t.figure(ref)})
	})
	if err != nil {
		return s, fmt.Errorf("%w: %v", ErrUnreadableFragment, err)
	}
	if fatal != nil {
		return s, fatal
	}
	return applySpans(s, spans), nil
}

// fetchAll materialises every reference, in parallel up to FetchConcurrency.
func (t *Transpiler) fetchAll(ctx context.Context, refs []ImageReference) ([]FetchWarning, error) {
	if len(refs) == 0 || t.fetcher == nil {
		return nil, nil
	}
	var (
		mu       sync.Mutex
		warnings []FetchWarning
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.FetchConcurrency)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			_, warn, err := t.fetchOnce(ctx, ref)
			if err != nil {
				return err
			}
			if warn != nil {
				mu.Lock()
				warnings = append(warnings, *warn)
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	return warnings, err
}

// fetchOnce fetches ref unless this Transpiler already did. The warning is
// only returned by the call that performed the download.
func (t *Transpiler) fetchOnce(ctx context.Context, ref ImageReference) (FetchResult, *FetchWarning, error) {
	t.mu.Lock()
	res, ok := t.fetched[ref.URL]
	t.mu.Unlock()
	if ok {
		return res, nil, nil
	}
	if t.fetcher == nil {
		return FetchResult{}, nil, fmt.Errorf("no fetcher configured for %s", ref.URL)
	}

	res, err := t.fetcher.Fetch(ctx, ref)
	if err != nil {
		return res, nil, err
	}
	t.mu.Lock()
	if prev, ok := t.fetched[ref.URL]; ok {
		t.mu.Unlock()
		return prev, nil, nil
	}
	t.fetched[ref.URL] = res
	t.mu.Unlock()
	return res, res.Warning, nil
}

// Fetched returns the number of distinct URLs fetched so far.
func (t *Transpiler) Fetched() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.fetched)
}
