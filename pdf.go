package texprinter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	highlight "github.com/jessp01/gohighlight"
	"github.com/mitchellh/go-wordwrap"
)

const (
	pdfKeywords = "TeX, LaTeX, ConTeXt, StackExchange"
	pdfMargin   = 36.0
	codeColumns = 90
)

// ErrWriterClosed is returned by Append after Close.
var ErrWriterClosed = errors.New("pdf writer closed")

// PDFWriterParams configures a PDFWriter.
type PDFWriterParams struct {
	Out        io.Writer
	QuestionID string
	Version    string
	// SyntaxDir holds gohighlight yaml definitions, one file per language.
	SyntaxDir string
	Icons     IconMode
	Logger    *slog.Logger
}

// PDFWriter lays out elements on A4 pages and writes the document on Close.
type PDFWriter struct {
	pdf       *fpdf.Fpdf
	out       io.Writer
	tr        func(string) string
	syntaxDir string
	icons     IconMode
	logger    *slog.Logger
	closed    bool
}

// NewPDFWriter starts a document with the TeXPrinter metadata.
func NewPDFWriter(params PDFWriterParams) *PDFWriter {
	logger := params.Logger
	if logger == nil {
		logger = discardLogger()
	}
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	producer := "TeXPrinter v" + params.Version
	pdf.SetAuthor(producer, false)
	pdf.SetCreator(producer, false)
	pdf.SetTitle("Printed result of post "+params.QuestionID, false)
	pdf.SetKeywords(pdfKeywords, false)
	pdf.AddPage()

	return &PDFWriter{
		pdf:       pdf,
		out:       params.Out,
		tr:        pdf.UnicodeTranslatorFromDescriptor(""),
		syntaxDir: params.SyntaxDir,
		icons:     params.Icons,
		logger:    logger,
	}
}

// Append draws one element.
func (w *PDFWriter) Append(e Element) error {
	if w.closed {
		return ErrWriterClosed
	}
	switch e := e.(type) {
	case *Paragraph:
		if e.Preformatted {
			w.codeBlock(e)
		} else {
			w.paragraph(e, 0)
		}
	case *List:
		w.list(e)
	case *Image:
		w.image(e)
	case LineBreak:
		w.pdf.Ln(w.lineHeight(Paragraph{}, 12))
	case Separator:
		w.separator()
	default:
		return fmt.Errorf("unsupported element %T", e)
	}
	return w.pdf.Error()
}

// Close finishes the document and writes it to the output.
func (w *PDFWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.pdf.Error(); err != nil {
		return err
	}
	return w.pdf.Output(w.out)
}

// sanitize replaces pictographs, which the core fonts cannot draw, and
// converts the rest to cp1252.
func (w *PDFWriter) sanitize(s string) string {
	return w.tr(replaceIcons(s, w.icons))
}

func coreFamily(family string) string {
	switch strings.ToLower(family) {
	case "courier", "courier new", "monospace":
		return "Courier"
	case "times", "times new roman", "serif":
		return "Times"
	}
	return "Helvetica"
}

func (w *PDFWriter) setFont(f Font) {
	size := f.Size
	if size <= 0 {
		size = 12
	}
	w.pdf.SetFont(coreFamily(f.Family), f.Style, size)
	w.pdf.SetTextColor(f.Color.Red, f.Color.Green, f.Color.Blue)
}

func (w *PDFWriter) lineHeight(p Paragraph, size float64) float64 {
	if p.Leading > 0 {
		return p.Leading
	}
	if size <= 0 {
		size = 12
	}
	return size * 1.2
}

func (w *PDFWriter) fontSize(p *Paragraph) float64 {
	size := 0.0
	for _, c := range p.Chunks {
		if c.Font.Size > size {
			size = c.Font.Size
		}
	}
	return size
}

func (w *PDFWriter) withIndent(indent float64, fn func()) {
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetLeftMargin(left + indent)
	w.pdf.SetX(left + indent)
	fn()
	w.pdf.SetLeftMargin(left)
	w.pdf.SetX(left)
}

func (w *PDFWriter) paragraph(p *Paragraph, extraIndent float64) {
	h := w.lineHeight(*p, w.fontSize(p))
	if p.Align == AlignRight {
		if len(p.Chunks) == 0 {
			return
		}
		w.setFont(p.Chunks[0].Font)
		w.pdf.MultiCell(0, h, w.sanitize(p.Text()), "", string(AlignRight), false)
		return
	}
	w.withIndent(p.Indent+extraIndent, func() {
		w.chunks(p.Chunks, h)
		w.pdf.Ln(h)
	})
}

func (w *PDFWriter) chunks(chunks []Chunk, h float64) {
	for _, c := range chunks {
		w.setFont(c.Font)
		s := w.sanitize(c.Text)
		if c.Link != "" {
			w.pdf.WriteLinkString(h, s, c.Link)
		} else {
			w.pdf.Write(h, s)
		}
	}
}

func (w *PDFWriter) list(l *List) {
	for _, item := range l.Items {
		indent := l.Indent * float64(item.Level+1)
		h := w.lineHeight(item.Paragraph, w.fontSize(&item.Paragraph))
		w.withIndent(indent, func() {
			if item.Label != "" && len(item.Paragraph.Chunks) > 0 {
				w.setFont(item.Paragraph.Chunks[0].Font)
				w.pdf.Write(h, w.sanitize(item.Label+" "))
			}
			w.chunks(item.Paragraph.Chunks, h)
			w.pdf.Ln(h)
		})
	}
}

func (w *PDFWriter) codeBlock(p *Paragraph) {
	font := Font{Family: "Courier", Size: 10, Color: ColorBlack}
	if len(p.Chunks) > 0 {
		font = p.Chunks[0].Font
		font.Size = 10
	}
	h := w.lineHeight(*p, font.Size)
	code := wordwrap.WrapString(p.Text(), codeColumns)

	w.withIndent(p.Indent, func() {
		w.setFont(font)
		h2 := w.highlighter(p.Language)
		if h2 == nil {
			w.pdf.MultiCell(0, h, w.sanitize(code), "", "L", false)
			return
		}
		matches := h2.HighlightString(code)
		for lineN, l := range strings.Split(code, "\n") {
			colN := 0
			for _, c := range l {
				if lineN < len(matches) {
					if group, ok := matches[lineN][colN]; ok {
						w.setGroupColor(group, font)
					}
				}
				w.pdf.Write(h, w.sanitize(string(c)))
				colN++
			}
			w.pdf.Ln(h)
		}
		w.setFont(font)
	})
}

func (w *PDFWriter) highlighter(lang string) *highlight.Highlighter {
	if lang == "" || w.syntaxDir == "" {
		return nil
	}
	syntaxFile, err := os.ReadFile(filepath.Join(w.syntaxDir, lang+".yaml"))
	if err != nil {
		w.logger.Debug("no syntax definition", "lang", lang, "err", err)
		return nil
	}
	def, err := highlight.ParseDef(syntaxFile)
	if err != nil {
		w.logger.Warn("invalid syntax definition", "lang", lang, "err", err)
		return nil
	}
	return highlight.NewHighlighter(def)
}

func (w *PDFWriter) setGroupColor(group highlight.Group, base Font) {
	switch group {
	case highlight.Groups["statement"], highlight.Groups["green"]:
		w.pdf.SetTextColor(42, 170, 138)
	case highlight.Groups["identifier"], highlight.Groups["blue"]:
		w.pdf.SetTextColor(0, 102, 204)
	case highlight.Groups["preproc"], highlight.Groups["special"], highlight.Groups["type.keyword"], highlight.Groups["red"]:
		w.pdf.SetTextColor(255, 80, 80)
	case highlight.Groups["constant"], highlight.Groups["constant.number"], highlight.Groups["constant.bool"], highlight.Groups["cyan"]:
		w.pdf.SetTextColor(0, 136, 163)
	case highlight.Groups["constant.string"], highlight.Groups["constant.specialChar"], highlight.Groups["magenta"]:
		w.pdf.SetTextColor(255, 0, 255)
	case highlight.Groups["type"], highlight.Groups["symbol.operator"], highlight.Groups["yellow"]:
		w.pdf.SetTextColor(255, 165, 0)
	case highlight.Groups["comment"], highlight.Groups["high.green"]:
		w.pdf.SetTextColor(82, 204, 0)
	default:
		w.pdf.SetTextColor(base.Color.Red, base.Color.Green, base.Color.Blue)
	}
}

func (w *PDFWriter) image(img *Image) {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	maxW := pageW - left - right

	width := float64(img.Width) * img.Scale
	if width <= 0 || width > maxW {
		width = maxW
	}
	options := fpdf.ImageOptions{ImageType: img.Type, ReadDpi: true}
	// fpdf errors are sticky; an image it rejects is left out.
	w.pdf.RegisterImageOptions(img.Path, options)
	if w.pdf.Err() {
		w.logger.Error("image cannot be drawn, leaving it out", "file", img.Path, "err", w.pdf.Error())
		w.pdf.ClearError()
		return
	}
	w.pdf.ImageOptions(img.Path, -1, -1, width, 0, true, options, 0, "")
}

func (w *PDFWriter) separator() {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	w.pdf.Ln(4)
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(ColorDarkGray.Red, ColorDarkGray.Green, ColorDarkGray.Blue)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(left, y, pageW-right, y)
	w.pdf.Ln(8)
}
