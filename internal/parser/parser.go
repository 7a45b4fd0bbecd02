package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docwheel/internal/doctree"
)

// Header is one header marker line found in a document.
type Header struct {
	Level int    // Number of '#' characters (1-6)
	Title string // Trimmed text after the marker
	Line  int    // Zero-based line index in the source text
}

// Scanner finds header lines in whole-document text. Implementations must
// report headers in document order.
type Scanner interface {
	Scan(text string) []Header
}

// Parse mode names accepted by ForMode.
const (
	ModeLines    = "lines"
	ModeMarkdown = "markdown"
)

// ForMode returns the scanner for a configured parse mode.
func ForMode(mode string) (Scanner, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeLines:
		return LineScanner{}, nil
	case ModeMarkdown, "commonmark":
		return MarkdownScanner{}, nil
	default:
		return nil, fmt.Errorf("unsupported parse mode: %s", mode)
	}
}

// MatchHeader reports whether line is a header marker line: 1-6 '#'
// characters, at least one space or tab, then non-empty text. A trailing
// carriage return is ignored.
func MatchHeader(line string) (level int, title string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > doctree.MaxLevel || level == len(line) {
		return 0, "", false
	}
	if c := line[level]; c != ' ' && c != '\t' {
		return 0, "", false
	}
	title = strings.TrimSpace(line[level:])
	if title == "" {
		return 0, "", false
	}
	return level, title, true
}

// Fold nests a flat header list under a synthetic root named after the
// document.
func Fold(name string, headers []Header) *doctree.Node {
	root := doctree.NewRoot(name)
	stack := []*doctree.Node{root}

	for _, h := range headers {
		node := &doctree.Node{Level: h.Level, Title: h.Title, Line: h.Line}

		// Pop stack until we find a parent with lower level.
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	return root
}

// Parse scans text with s and folds the result into a tree. Text without
// headers yields a root with no children.
func Parse(text, name string, s Scanner) *doctree.Node {
	if s == nil {
		s = LineScanner{}
	}
	return Fold(name, s.Scan(text))
}

// DocumentName derives the root title from a document path.
func DocumentName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSuffix(name, ".md"), ".markdown")
}
