package texprinter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ImageResolver turns the src of an img element into a drawable image.
// It returns false when the image should be left out.
type ImageResolver interface {
	ResolveImage(ctx context.Context, src string) (*Image, bool)
}

// StyleSheet holds the styling rules applied while converting HTML to elements.
type StyleSheet struct {
	Body        Font
	CodeFamily  string
	LinkColor   Color
	ListIndent  float64
	ListLeading float64
	QuoteIndent float64
}

// DefaultStyleSheet returns the rules used for post and comment bodies.
func DefaultStyleSheet() StyleSheet {
	return StyleSheet{
		Body:        Font{Family: "Helvetica", Size: 12, Color: ColorBlack},
		CodeFamily:  "Courier",
		LinkColor:   ColorBlue,
		ListIndent:  10,
		ListLeading: 14,
		QuoteIndent: 20,
	}
}

var headingSizes = map[atom.Atom]float64{
	atom.H1: 18, atom.H2: 16, atom.H3: 14, atom.H4: 12, atom.H5: 12, atom.H6: 12,
}

type listFrame struct {
	ordered bool
	counter int
}

type converter struct {
	ctx    context.Context
	styles StyleSheet
	images ImageResolver
	out    []Element

	para   *Paragraph
	fonts  []Font
	links  []string
	indent float64
	pre    int

	frames []*listFrame
	list   *List
	item   *ListItem
}

// ConvertHTML converts an HTML fragment into an element sequence. Images are
// resolved synchronously through images, which may be nil.
func ConvertHTML(ctx context.Context, fragment string, styles StyleSheet, images ImageResolver) ([]Element, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFragment, err)
	}
	c := &converter{
		ctx:    ctx,
		styles: styles,
		images: images,
		fonts:  []Font{styles.Body},
	}
	body := findBody(doc)
	if body == nil {
		body = doc
	}
	c.children(body)
	c.closeList()
	c.flush()
	return c.out, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if b := findBody(ch); b != nil {
			return b
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// languageHint extracts the language of a code block from classes such as "lang-tex".
func languageHint(class string) string {
	for _, f := range strings.Fields(class) {
		for _, prefix := range []string{"lang-", "language-"} {
			if strings.HasPrefix(f, prefix) {
				return strings.TrimPrefix(f, prefix)
			}
		}
	}
	return ""
}

func (c *converter) font() Font {
	return c.fonts[len(c.fonts)-1]
}

func (c *converter) link() string {
	if len(c.links) == 0 {
		return ""
	}
	return c.links[len(c.links)-1]
}

func (c *converter) withFont(f Font, fn func()) {
	c.fonts = append(c.fonts, f)
	fn()
	c.fonts = c.fonts[:len(c.fonts)-1]
}

func (c *converter) current() *Paragraph {
	if c.item != nil {
		return &c.item.Paragraph
	}
	if c.para == nil {
		c.para = &Paragraph{Align: AlignLeft, Indent: c.indent}
	}
	return c.para
}

func (c *converter) addText(s string) {
	p := c.current()
	f, l := c.font(), c.link()
	if n := len(p.Chunks); n > 0 && p.Chunks[n-1].Font == f && p.Chunks[n-1].Link == l {
		p.Chunks[n-1].Text += s
		return
	}
	p.Chunks = append(p.Chunks, Chunk{Text: s, Font: f, Link: l})
}

func (c *converter) flush() {
	if c.para == nil {
		return
	}
	if c.para.hasContent() {
		c.out = append(c.out, c.para)
	}
	c.para = nil
}

func (c *converter) finishItem() {
	if c.item == nil {
		return
	}
	if c.item.Paragraph.hasContent() {
		c.list.Items = append(c.list.Items, *c.item)
	}
	c.item = nil
}

func (c *converter) closeList() {
	c.finishItem()
	if c.list != nil && len(c.list.Items) > 0 {
		c.out = append(c.out, c.list)
	}
	c.list = nil
}

func (c *converter) children(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.walk(ch)
	}
}

func (c *converter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.text(n.Data)
	case html.ElementNode:
		c.element(n)
	case html.CommentNode:
	default:
		c.children(n)
	}
}

func (c *converter) text(s string) {
	if c.pre > 0 {
		c.addText(s)
		return
	}
	var last string
	if c.item != nil {
		last = c.item.Paragraph.Text()
	} else if c.para != nil {
		last = c.para.Text()
	}
	empty := last == ""
	spaced := empty || endsWithSpace(last)
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		if !spaced && s != "" {
			c.addText(" ")
		}
		return
	}
	if !spaced && startsWithSpace(s) {
		collapsed = " " + collapsed
	}
	if endsWithSpace(s) {
		collapsed += " "
	}
	c.addText(collapsed)
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\n\r\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\n\r\f") != s
}

func (c *converter) element(n *html.Node) {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style:
		return
	case atom.Br:
		switch {
		case c.pre > 0 || c.para != nil || c.item != nil:
			c.addText("\n")
		case len(c.frames) > 0:
			// between list items
		default:
			c.out = append(c.out, LineBreak{})
		}
	case atom.P, atom.Div:
		if c.item != nil {
			c.children(n)
			return
		}
		c.flush()
		c.children(n)
		c.flush()
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		c.flush()
		f := c.font().with("B")
		f.Size = headingSizes[n.DataAtom]
		c.withFont(f, func() { c.children(n) })
		c.flush()
	case atom.B, atom.Strong:
		c.withFont(c.font().with("B"), func() { c.children(n) })
	case atom.I, atom.Em:
		c.withFont(c.font().with("I"), func() { c.children(n) })
	case atom.U:
		c.withFont(c.font().with("U"), func() { c.children(n) })
	case atom.Code, atom.Kbd, atom.Tt:
		f := c.font()
		f.Family = c.styles.CodeFamily
		c.withFont(f, func() { c.children(n) })
	case atom.Font:
		f := c.font()
		if face := attr(n, "face"); face != "" {
			f.Family = face
		}
		c.withFont(f, func() { c.children(n) })
	case atom.A:
		f := c.font()
		f.Color = c.styles.LinkColor
		c.links = append(c.links, attr(n, "href"))
		c.withFont(f, func() { c.children(n) })
		c.links = c.links[:len(c.links)-1]
	case atom.Blockquote:
		c.flush()
		c.indent += c.styles.QuoteIndent
		c.children(n)
		c.flush()
		c.indent -= c.styles.QuoteIndent
	case atom.Pre:
		c.flush()
		if c.item == nil {
			c.para = &Paragraph{
				Align:        AlignLeft,
				Indent:       c.indent,
				Preformatted: true,
				Language:     languageHint(attr(n, "class")),
			}
		}
		f := c.font()
		f.Family = c.styles.CodeFamily
		c.pre++
		c.withFont(f, func() { c.children(n) })
		c.pre--
		c.flush()
	case atom.Ul, atom.Ol:
		c.enterList(n, n.DataAtom == atom.Ol)
	case atom.Li:
		if len(c.frames) == 0 {
			c.flush()
			c.children(n)
			c.flush()
			return
		}
		c.finishItem()
		frame := c.frames[len(c.frames)-1]
		frame.counter++
		label := "•"
		if frame.ordered {
			label = strconv.Itoa(frame.counter) + "."
		}
		c.item = &ListItem{
			Label: label,
			Level: len(c.frames) - 1,
			Paragraph: Paragraph{
				Align:   AlignLeft,
				Leading: c.styles.ListLeading,
			},
		}
		c.children(n)
		c.finishItem()
	case atom.Img:
		c.image(n)
	case atom.Hr:
		c.flush()
		c.out = append(c.out, Separator{})
	default:
		c.children(n)
	}
}

func (c *converter) enterList(n *html.Node, ordered bool) {
	if len(c.frames) == 0 {
		c.flush()
		c.list = &List{Ordered: ordered, Indent: c.styles.ListIndent}
	} else {
		c.finishItem()
	}
	c.frames = append(c.frames, &listFrame{ordered: ordered})
	c.children(n)
	c.frames = c.frames[:len(c.frames)-1]
	if len(c.frames) == 0 {
		c.closeList()
	}
}

func (c *converter) image(n *html.Node) {
	src := attr(n, "src")
	if src == "" || c.images == nil {
		return
	}
	img, ok := c.images.ResolveImage(c.ctx, src)
	if !ok {
		return
	}

	// Images end the running paragraph; inside a list the list is split
	// around the image and the item continues without a label.
	var cont *ListItem
	if c.item != nil {
		cont = &ListItem{Level: c.item.Level, Paragraph: Paragraph{Align: AlignLeft, Leading: c.item.Paragraph.Leading}}
	}
	if c.list != nil {
		c.finishItem()
		if len(c.list.Items) > 0 {
			c.out = append(c.out, c.list)
			c.list = &List{Ordered: c.list.Ordered, Indent: c.list.Indent}
		}
	}
	c.flush()
	c.out = append(c.out, img)
	c.item = cont
}
