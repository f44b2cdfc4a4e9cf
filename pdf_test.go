package texprinter

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// containsPDFMarker checks if the given bytes contain the PDF magic marker
func containsPDFMarker(data []byte) bool {
	return bytes.Contains(data, []byte("%PDF"))
}

func TestPDFWriterElements(t *testing.T) {
	dir := t.TempDir()
	placeholder, err := FallbackImage()
	if err != nil {
		t.Fatal(err)
	}
	imgPath := filepath.Join(dir, "p.png")
	if err := os.WriteFile(imgPath, placeholder, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := NewPDFWriter(PDFWriterParams{Out: &buf, QuestionID: "42", Version: "test"})
	body := DefaultStyleSheet().Body
	elements := []Element{
		textParagraph("Title 🦆 café", titleFont, AlignLeft),
		textParagraph("byline", bylineFont, AlignRight),
		Separator{},
		&Paragraph{Chunks: []Chunk{{Text: "see ", Font: body}, {Text: "link", Font: body, Link: "http://x"}}},
		&List{Indent: 10, Items: []ListItem{
			{Label: "•", Paragraph: Paragraph{Chunks: []Chunk{{Text: "one", Font: body}}, Leading: 14}},
			{Label: "1.", Level: 1, Paragraph: Paragraph{Chunks: []Chunk{{Text: "two", Font: body}}, Leading: 14}},
		}},
		&Paragraph{Preformatted: true, Language: "tex", Chunks: []Chunk{{Text: "\\relax\n\\bye", Font: Font{Family: "Courier"}}}},
		&Image{Path: imgPath, Type: "PNG", Width: 176, Height: 74, Scale: 1},
		LineBreak{},
	}
	for _, e := range elements {
		if err := w.Append(e); err != nil {
			t.Fatalf("append %T: %v", e, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPDFMarker(buf.Bytes()) {
		t.Fatalf("output is not a PDF")
	}
	for _, meta := range []string{"Printed result of post 42", "TeXPrinter vtest", pdfKeywords} {
		if !bytes.Contains(buf.Bytes(), []byte(meta)) {
			t.Fatalf("expected metadata %q in output", meta)
		}
	}

	if err := w.Append(LineBreak{}); !errors.Is(err, ErrWriterClosed) {
		t.Fatalf("expected ErrWriterClosed got %v", err)
	}
}

func TestPDFWriterMissingSyntaxDir(t *testing.T) {
	w := NewPDFWriter(PDFWriterParams{Out: &bytes.Buffer{}, SyntaxDir: filepath.Join(t.TempDir(), "none")})
	if h := w.highlighter("tex"); h != nil {
		t.Fatalf("expected no highlighter")
	}
}

func TestSanitize(t *testing.T) {
	w := NewPDFWriter(PDFWriterParams{Out: &bytes.Buffer{}})
	got := w.sanitize("a🦆b👍🏽c")
	if got != "a b c" {
		t.Fatalf("expected %q got %q", "a b c", got)
	}
}

func TestAssembleToPDF(t *testing.T) {
	var buf bytes.Buffer
	w := NewPDFWriter(PDFWriterParams{Out: &buf, QuestionID: "7", Version: "test"})
	a := &Assembler{Out: w, Transpiler: newTestTranspiler(t, DefaultOptions())}
	q := &Question{
		Question: Post{Title: "Q", Body: "<p>Some <b>text</b></p><pre><code>x</code></pre><ul><li>a</li></ul>",
			Comments: []Comment{{Author: "c", Body: "short"}}},
		Answers: []Post{{Body: "<blockquote>quoted</blockquote>", Accepted: true}},
	}
	if _, err := a.Assemble(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPDFMarker(buf.Bytes()) {
		t.Fatalf("output is not a PDF")
	}
}

// interlacedPNGBytes returns a 1x1 PNG with the Adam7 flag set. A single pixel
// has the same scanline data in both layouts, so only the header changes.
func interlacedPNGBytes(t *testing.T) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	data[28] = 1
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestPDFWriterSkipsRejectedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interlaced.png")
	if err := os.WriteFile(path, interlacedPNGBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	w := NewPDFWriter(PDFWriterParams{Out: &buf})
	if err := w.Append(&Image{Path: path, Type: "PNG", Width: 1, Height: 1, Scale: 1}); err != nil {
		t.Fatalf("expected the image to be skipped, got %v", err)
	}
	if err := w.Append(textParagraph("after", titleFont, AlignLeft)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPDFMarker(buf.Bytes()) {
		t.Fatalf("output is not a PDF")
	}
	if bytes.Contains(buf.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("expected no embedded image")
	}
}

func TestPrepareImageInterlacedPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interlaced.png")
	if err := os.WriteFile(path, interlacedPNGBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := prepareImage(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Path == path || img.Width != 1 {
		t.Fatalf("expected a re-encoded 1px image, got %+v", img)
	}

	var buf bytes.Buffer
	w := NewPDFWriter(PDFWriterParams{Out: &buf})
	if err := w.Append(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Subtype /Image")) {
		t.Fatalf("expected the image to be embedded")
	}
}

func TestAssembleInterlacedImage(t *testing.T) {
	payload := interlacedPNGBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write(payload)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	w := NewPDFWriter(PDFWriterParams{Out: &buf})
	a := &Assembler{Out: w, Transpiler: newTestTranspiler(t, DefaultOptions())}
	q := &Question{Question: Post{Title: "Q", Body: `<p>before</p><p><img src="` + srv.URL + `/i.png" alt=""></p><p>after</p>`}}
	if _, err := a.Assemble(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !containsPDFMarker(buf.Bytes()) {
		t.Fatalf("output is not a PDF")
	}
}
