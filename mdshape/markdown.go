// Package mdshape turns a trimmed Markdown body into an ordered list of
// rich-text lines, each an ordered list of inlines, for sinks (Feishu's
// "post" payload) that render structured rich text instead of plain
// strings. Parsing is CommonMark-correct via goldmark rather than a
// hand-rolled scanner.
package mdshape

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// InlineKind discriminates the three inline shapes a line can contain.
type InlineKind int

const (
	KindText InlineKind = iota
	KindLink
	KindImage
)

// Inline is exactly one of Text(s), Link{Text,Href}, or Image{Alt,Src}.
type Inline struct {
	Kind InlineKind
	Text string
	Href string
	Alt  string
	Src  string
}

// Line is an ordered list of inlines; consecutive text inlines within a
// line are always merged by the parser, never left split.
type Line []Inline

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse shapes a trimmed Markdown body into lines of inlines, per the rules
// in the markdown shaper component: list items get a "• " text prefix,
// task list items get "[x] "/"[ ] " instead, links with empty text fall
// back to their href, images preserve alt/src, horizontal rules become a
// dedicated "---" line, and raw HTML is treated as opaque text.
func Parse(body string) []Line {
	src := []byte(strings.TrimSpace(body))
	doc := md.Parser().Parse(text.NewReader(src))

	b := &builder{src: src}
	_ = ast.Walk(doc, b.visit)
	b.flush()
	return b.lines
}

type builder struct {
	src        []byte
	lines      []Line
	current    Line
	needBullet bool
	inCode     bool
}

func (b *builder) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.ListItem:
		if entering {
			b.needBullet = true
		} else {
			b.flush()
		}
	case *ast.Paragraph, *ast.Heading, *ast.Blockquote:
		if !entering {
			b.flush()
		}
	case *extast.TableRow, *extast.TableHeader:
		if !entering {
			b.flush()
		}
	case *ast.List:
		// container only; ListItem handles bullets.
	case *extast.TaskCheckBox:
		if entering {
			marker := "[ ] "
			if node.IsChecked {
				marker = "[x] "
			}
			b.appendText(marker)
			b.needBullet = false
		}
	case *ast.ThematicBreak:
		if entering {
			b.flush()
			b.lines = append(b.lines, Line{{Kind: KindText, Text: "---"}})
		}
	case *ast.CodeBlock:
		if entering {
			b.inCode = true
			b.appendText(linesText(node, b.src))
		} else {
			b.inCode = false
			b.flush()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			b.inCode = true
			b.appendText(linesText(node, b.src))
		} else {
			b.inCode = false
			b.flush()
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		if entering {
			b.appendText(htmlBlockText(node, b.src))
		}
		return ast.WalkSkipChildren, nil
	case *ast.RawHTML:
		if entering {
			b.applyBulletIfNeeded()
			b.appendText(rawHTMLText(node, b.src))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Link:
		if entering {
			b.applyBulletIfNeeded()
			href := string(node.Destination)
			txt := extractText(node, b.src)
			if txt == "" {
				txt = href
			}
			b.appendInline(Inline{Kind: KindLink, Text: txt, Href: href})
			return ast.WalkSkipChildren, nil
		}
	case *ast.Image:
		if entering {
			b.applyBulletIfNeeded()
			src := string(node.Destination)
			alt := extractText(node, b.src)
			b.appendInline(Inline{Kind: KindImage, Alt: alt, Src: src})
			return ast.WalkSkipChildren, nil
		}
	case *ast.Text:
		if entering {
			b.applyBulletIfNeeded()
			b.appendText(string(node.Segment.Value(b.src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				if b.inCode {
					b.appendText("\n")
				} else {
					b.flush()
				}
			}
		}
	}
	return ast.WalkContinue, nil
}

func (b *builder) applyBulletIfNeeded() {
	if b.needBullet {
		b.appendText("• ")
		b.needBullet = false
	}
}

// appendText merges into the trailing text inline when possible, per the
// "consecutive text inlines on the same line are merged" rule.
func (b *builder) appendText(s string) {
	if s == "" {
		return
	}
	if n := len(b.current); n > 0 && b.current[n-1].Kind == KindText {
		b.current[n-1].Text += s
		return
	}
	b.current = append(b.current, Inline{Kind: KindText, Text: s})
}

func (b *builder) appendInline(i Inline) {
	b.current = append(b.current, i)
}

func (b *builder) flush() {
	if len(b.current) > 0 {
		b.lines = append(b.lines, b.current)
		b.current = nil
	}
}

// extractText collects the plain-text content of n's descendants (link
// text, image alt text), ignoring any nested inline markup structure.
func extractText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
		default:
			sb.WriteString(extractText(c, src))
		}
	}
	return sb.String()
}

type hasLines interface {
	Lines() *text.Segments
}

func linesText(n hasLines, src []byte) string {
	lines := n.Lines()
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func htmlBlockText(n *ast.HTMLBlock, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		sb.Write(lines.At(i).Value(src))
	}
	if n.HasClosure() {
		sb.Write(n.ClosureLine.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func rawHTMLText(n *ast.RawHTML, src []byte) string {
	var sb strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		sb.Write(n.Segments.At(i).Value(src))
	}
	return sb.String()
}
