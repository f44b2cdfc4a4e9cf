package texprinter

import "strings"

// Color is an RGB triple.
type Color struct {
	Red, Green, Blue int
}

var (
	ColorBlack    = Color{0, 0, 0}
	ColorDarkGray = Color{64, 64, 64}
	ColorBlue     = Color{0, 0, 255}
)

// Font selects a face for a run of text. Style is any combination of
// "B", "I" and "U", as fpdf expects.
type Font struct {
	Family string
	Style  string
	Size   float64
	Color  Color
}

func (f Font) with(style string) Font {
	for _, c := range style {
		if !strings.ContainsRune(f.Style, c) {
			f.Style += string(c)
		}
	}
	return f
}

// Alignment of a paragraph.
type Alignment string

const (
	AlignLeft  Alignment = "L"
	AlignRight Alignment = "R"
)

// Element is one renderable unit of the PDF element sequence.
type Element interface {
	element()
}

// Chunk is a run of text in a single font. Link is set for hyperlinks.
type Chunk struct {
	Text string
	Font Font
	Link string
}

// Paragraph is a block of chunks.
type Paragraph struct {
	Chunks []Chunk
	Align  Alignment
	// Indent is added to the left margin, in points.
	Indent float64
	// Leading is the line height in points; zero means font size based.
	Leading float64
	// Preformatted paragraphs keep whitespace and line breaks.
	Preformatted bool
	// Language is the highlighting hint of a preformatted block.
	Language string
}

// Text returns the concatenated chunk text.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, c := range p.Chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

func (p *Paragraph) hasContent() bool {
	for _, c := range p.Chunks {
		if p.Preformatted && c.Text != "" {
			return true
		}
		if strings.TrimSpace(c.Text) != "" {
			return true
		}
	}
	return false
}

// ListItem is one item of a List. Level is the nesting depth, starting at 0.
type ListItem struct {
	Label     string
	Level     int
	Paragraph Paragraph
}

// List is an ordered or unordered list.
type List struct {
	Ordered bool
	Items   []ListItem
	Indent  float64
}

// Image is a local image file ready to be drawn.
type Image struct {
	Path   string
	Type   string
	Width  int
	Height int
	Scale  float64
}

// LineBreak is an empty line.
type LineBreak struct{}

// Separator is a horizontal rule across the text width.
type Separator struct{}

func (*Paragraph) element() {}
func (*List) element()      {}
func (*Image) element()     {}
func (LineBreak) element()  {}
func (Separator) element()  {}
