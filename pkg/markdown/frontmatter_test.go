package markdown

import (
	"strings"
	"testing"
)

func TestParseWithFrontMatter(t *testing.T) {
	content := "---\ntitle: Hello\nimage: https://img.example/a.png\ntags:\n  - one\n---\n# Heading\nBody\n"

	document, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Title() != "Hello" || document.Image() != "https://img.example/a.png" {
		t.Fatalf("unexpected front matter %+v", document.FrontMatter)
	}
	if document.Body != "# Heading\nBody\n" {
		t.Fatalf("unexpected body %q", document.Body)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	document, err := Parse("# Just a heading\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(document.FrontMatter) != 0 || document.Body != "# Just a heading\n" {
		t.Fatalf("unexpected document %+v", document)
	}

	unterminated := "---\ntitle: nope\n# Body"
	document, err = Parse(unterminated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Body != unterminated {
		t.Fatal("unterminated front matter must be left as body")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse("---\ntitle: [unclosed\n---\nbody"); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestMergeSummaryKeepsExistingKeys(t *testing.T) {
	merged, err := MergeSummary("---\ntitle: Hello\n---\nBody", "Short summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document, err := Parse(merged)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Title() != "Hello" || document.Summary() != "Short summary" {
		t.Fatalf("unexpected front matter %+v", document.FrontMatter)
	}
	if document.Body != "Body" {
		t.Fatalf("unexpected body %q", document.Body)
	}
}

func TestMergeSummaryAddsFrontMatter(t *testing.T) {
	merged, err := MergeSummary("Body only", "Summary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(merged, "---\nsummary: Summary\n---\n") {
		t.Fatalf("unexpected merged content %q", merged)
	}
}

func TestNullFrontMatterIsWritable(t *testing.T) {
	document, err := Parse("---\n~\n---\nbody\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.FrontMatter == nil || document.Body != "body\n" {
		t.Fatalf("unexpected document %+v", document)
	}

	merged, err := MergeSummary("---\n~\n---\nbody\n", "short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged != "---\nsummary: short\n---\nbody\n" {
		t.Fatalf("unexpected merged content %q", merged)
	}
}

func TestSetField(t *testing.T) {
	updated, err := SetField("---\ntitle: Hello\n---\nBody", "image", "https://img.example/a.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	document, err := Parse(updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if document.Title() != "Hello" || document.Image() != "https://img.example/a.png" {
		t.Fatalf("unexpected front matter %+v", document.FrontMatter)
	}

	unchanged, err := SetField("Body", "image", "  ")
	if err != nil || unchanged != "Body" {
		t.Fatalf("empty value must leave content unchanged, got %q (%v)", unchanged, err)
	}
}

func TestDisplayTitleAndPreview(t *testing.T) {
	document := Document{FrontMatter: map[string]any{}, Body: strings.Repeat("é", 200)}
	if DisplayTitle(document, "") != "Untitled Piece" {
		t.Fatal("expected fallback title")
	}
	if DisplayTitle(document, "On-chain") != "On-chain" {
		t.Fatal("expected on-chain name")
	}
	document.FrontMatter["title"] = "Front"
	if DisplayTitle(document, "On-chain") != "Front" {
		t.Fatal("expected front matter title")
	}

	if got := []rune(Preview(document, false)); len(got) != 140 {
		t.Fatalf("expected 140 runes, got %d", len(got))
	}
	if Preview(document, true) != document.Body {
		t.Fatal("verified preview must be the whole body")
	}
}
