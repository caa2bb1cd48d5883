package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Summary extracts the leading paragraphs of a markdown document as plain
// text, up to limit runes. Headings, code blocks and HTML are dropped; inline
// code keeps its backticks.
func Summary(source string, limit int) string {
	src := []byte(source)
	document := markdown.Parser().Parse(text.NewReader(src))

	var paragraphs []string
	length := 0
	for node := document.FirstChild(); node != nil && length < limit; node = node.NextSibling() {
		var paragraph string
		switch node := node.(type) {
		case *ast.Paragraph:
			paragraph = inlineText(node, src)
		case *ast.List:
			paragraph = listText(node, src)
		default:
			continue
		}
		if paragraph = strings.TrimSpace(paragraph); paragraph == "" {
			continue
		}
		paragraphs = append(paragraphs, paragraph)
		length += len([]rune(paragraph)) + 2
	}

	return Truncate(strings.Join(paragraphs, "\n\n"), limit)
}

func listText(list *ast.List, src []byte) string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			parts = append(parts, inlineText(child, src))
		}
		items = append(items, "• "+strings.TrimSpace(strings.Join(parts, " ")))
	}
	return strings.Join(items, "\n")
}

func inlineText(node ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.CodeSpan:
			b.WriteByte('`')
			for child := n.FirstChild(); child != nil; child = child.NextSibling() {
				if t, ok := child.(*ast.Text); ok {
					b.Write(t.Segment.Value(src))
				}
			}
			b.WriteByte('`')
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(n.URL(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.Image:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
