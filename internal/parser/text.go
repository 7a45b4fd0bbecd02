package parser

import "strings"

// LineScanner treats every line that matches the header marker syntax as a
// header, regardless of surrounding markdown structure.
type LineScanner struct{}

func (LineScanner) Scan(text string) []Header {
	if text == "" {
		return nil
	}
	var headers []Header
	for i, line := range strings.Split(text, "\n") {
		if level, title, ok := MatchHeader(line); ok {
			headers = append(headers, Header{Level: level, Title: title, Line: i})
		}
	}
	return headers
}
