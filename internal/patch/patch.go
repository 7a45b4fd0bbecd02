// Package patch rewrites header lines in whole-document text. Every
// operation is a pure transformation of the line list: the caller reads the
// document, patches it and writes the result back in one piece.
package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docwheel/internal/doctree"
	"github.com/dgallion1/docwheel/internal/parser"
)

var (
	// ErrNotFound indicates that no header line matches the target.
	ErrNotFound = errors.New("header line not found")

	// ErrInvalidTitle indicates an empty title or one spanning several lines.
	ErrInvalidTitle = errors.New("invalid header title")

	// ErrLevelLimit indicates an insertion below the deepest header level.
	ErrLevelLimit = errors.New("header level limit reached")
)

// Target identifies a header by its natural key. Occurrence picks among
// headers sharing level and title, in document order; 0 is the first.
type Target struct {
	Level      int
	Title      string
	Occurrence int
}

// TargetFor builds the target for node within root.
func TargetFor(root, node *doctree.Node) Target {
	occ := root.Occurrence(node)
	if occ < 0 {
		occ = 0
	}
	return Target{Level: node.Level, Title: node.Title, Occurrence: occ}
}

func (t Target) String() string {
	return fmt.Sprintf("%s %s (#%d)", strings.Repeat("#", t.Level), t.Title, t.Occurrence)
}

// CleanTitle trims title and rejects empty or multi-line input.
func CleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.ContainsAny(title, "\r\n") {
		return "", ErrInvalidTitle
	}
	return title, nil
}

// Patcher locates header lines with the same scanner used to build the tree,
// so patching and parsing agree on what counts as a header.
type Patcher struct {
	scanner parser.Scanner
}

// New returns a patcher over s. A nil scanner means line scanning.
func New(s parser.Scanner) *Patcher {
	if s == nil {
		s = parser.LineScanner{}
	}
	return &Patcher{scanner: s}
}

type document struct {
	lines   []string
	headers []parser.Header
	cr      string // "\r" when the source uses CRLF endings
}

func (p *Patcher) load(text string) document {
	doc := document{
		lines:   strings.Split(text, "\n"),
		headers: p.scanner.Scan(text),
	}
	if strings.Contains(text, "\r\n") {
		doc.cr = "\r"
	}
	return doc
}

func (d document) String() string {
	return strings.Join(d.lines, "\n")
}

// find returns the position in d.headers of the target header.
func (d document) find(t Target) (int, error) {
	seen := 0
	for i, h := range d.headers {
		if h.Level != t.Level || h.Title != t.Title {
			continue
		}
		if seen == t.Occurrence {
			return i, nil
		}
		seen++
	}
	return -1, fmt.Errorf("%s: %w", t, ErrNotFound)
}

func (d *document) insert(at int, line string) {
	d.lines = append(d.lines, "")
	copy(d.lines[at+1:], d.lines[at:])
	d.lines[at] = line
}

// insertHeader places a header line at index at, ending it like the rest of
// the document. Appending after an unterminated last line terminates that
// line instead and leaves the new line unterminated.
func (d *document) insertHeader(at int, header string) {
	if at == len(d.lines) && d.cr != "" {
		if prev := d.lines[at-1]; !strings.HasSuffix(prev, "\r") {
			d.lines[at-1] = prev + d.cr
		}
		d.insert(at, header)
		return
	}
	d.insert(at, header+d.cr)
}

// end is the insertion point for appending a line at end-of-document, before
// the empty element a trailing newline leaves behind.
func (d document) end() int {
	if n := len(d.lines); n > 0 && d.lines[n-1] == "" {
		return n - 1
	}
	return len(d.lines)
}

func marker(level int) string {
	return strings.Repeat("#", level) + " "
}

// Rename rewrites the target header's text, keeping its marker and the
// whitespace that follows it.
func (p *Patcher) Rename(text string, t Target, title string) (string, error) {
	title, err := CleanTitle(title)
	if err != nil {
		return "", err
	}
	doc := p.load(text)
	hi, err := doc.find(t)
	if err != nil {
		return "", err
	}
	li := doc.headers[hi].Line
	line, ending := doc.lines[li], ""
	if strings.HasSuffix(line, "\r") {
		line, ending = strings.TrimSuffix(line, "\r"), "\r"
	}
	prefix := len(line) - len(strings.TrimLeft(line, "#"))
	prefix += len(line[prefix:]) - len(strings.TrimLeft(line[prefix:], " \t"))
	doc.lines[li] = line[:prefix] + title + ending
	return doc.String(), nil
}

// InsertChild adds a header one level deeper directly below the target's
// header line.
func (p *Patcher) InsertChild(text string, t Target, title string) (string, error) {
	title, err := CleanTitle(title)
	if err != nil {
		return "", err
	}
	if t.Level+1 > doctree.MaxLevel {
		return "", fmt.Errorf("%s: %w", t, ErrLevelLimit)
	}
	doc := p.load(text)
	hi, err := doc.find(t)
	if err != nil {
		return "", err
	}
	doc.insertHeader(doc.headers[hi].Line+1, marker(t.Level+1)+title)
	return doc.String(), nil
}

// InsertSibling adds a header at the target's level at the end of the
// target's subtree: before the next header of equal or lower level, or at
// end-of-document when there is none.
func (p *Patcher) InsertSibling(text string, t Target, title string) (string, error) {
	title, err := CleanTitle(title)
	if err != nil {
		return "", err
	}
	doc := p.load(text)
	hi, err := doc.find(t)
	if err != nil {
		return "", err
	}
	at := doc.end()
	for _, h := range doc.headers[hi+1:] {
		if h.Level <= t.Level {
			at = h.Line
			break
		}
	}
	doc.insertHeader(at, marker(t.Level)+title)
	return doc.String(), nil
}
