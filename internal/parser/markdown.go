package parser

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownScanner uses goldmark to decide which lines are real ATX headings,
// so '#' lines inside code blocks are ignored. Level and title still come from
// MatchHeader on the raw line, which keeps them identical to what the patcher
// rewrites.
type MarkdownScanner struct{}

func (MarkdownScanner) Scan(src string) []Header {
	if src == "" {
		return nil
	}
	data := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(data))

	lines := strings.Split(src, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, l := range lines {
		starts[i] = offset
		offset += len(l) + 1
	}

	var headers []Header
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		segs := heading.Lines()
		if segs.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		pos := segs.At(0).Start
		idx := sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
		if idx < 0 {
			return ast.WalkSkipChildren, nil
		}
		// Setext headings and indented ATX headings carry no column-0 marker.
		level, title, ok := MatchHeader(lines[idx])
		if ok && level == heading.Level {
			headers = append(headers, Header{Level: level, Title: title, Line: idx})
		}
		return ast.WalkSkipChildren, nil
	})
	return headers
}
