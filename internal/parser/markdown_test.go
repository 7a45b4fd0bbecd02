package parser

import (
	"testing"
)

func TestMarkdownScanner_IgnoresFencedHeaders(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n```\n# not a header\n## nor this\n```\n\n## Endpoints\n"

	headers := MarkdownScanner{}.Scan(input)
	if len(headers) != 2 {
		t.Fatalf("expected 2 headers, got %d: %+v", len(headers), headers)
	}
	if headers[0].Title != "API Reference" || headers[0].Line != 0 {
		t.Errorf("unexpected first header %+v", headers[0])
	}
	if headers[1].Title != "Endpoints" || headers[1].Level != 2 || headers[1].Line != 9 {
		t.Errorf("unexpected second header %+v", headers[1])
	}

	// The line scanner has no notion of code fences.
	if n := len(LineScanner{}.Scan(input)); n != 4 {
		t.Errorf("expected line scanner to report 4 headers, got %d", n)
	}
}

func TestMarkdownScanner_SkipsSetextAndIndented(t *testing.T) {
	input := "Title\n=====\n\n   # Indented\n\n# Real\n"

	headers := MarkdownScanner{}.Scan(input)
	if len(headers) != 1 {
		t.Fatalf("expected 1 header, got %d: %+v", len(headers), headers)
	}
	if headers[0].Title != "Real" || headers[0].Line != 5 {
		t.Errorf("unexpected header %+v", headers[0])
	}
}

func TestMarkdownScanner_AgreesWithLinesOnPlainOutline(t *testing.T) {
	input := "# Title\n\nIntro text.\n\n## Section A\n\n### Subsection A1\n\n## Section B\n"

	md := MarkdownScanner{}.Scan(input)
	ln := LineScanner{}.Scan(input)
	if len(md) != len(ln) {
		t.Fatalf("expected equal header counts, got %d and %d", len(md), len(ln))
	}
	for i := range md {
		if md[i] != ln[i] {
			t.Errorf("header %d: markdown %+v, lines %+v", i, md[i], ln[i])
		}
	}
}

func TestMarkdownScanner_EmptyInput(t *testing.T) {
	if headers := (MarkdownScanner{}).Scan(""); len(headers) != 0 {
		t.Errorf("expected no headers, got %d", len(headers))
	}
}
