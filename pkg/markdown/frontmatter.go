package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	delimiter        = "---"
	untitled         = "Untitled Piece"
	previewRuneLimit = 140
)

// Document is Markdown split into its YAML front matter and body.
type Document struct {
	FrontMatter map[string]any
	Body        string
}

// Parse splits a leading YAML front matter block from content. Content
// without front matter yields an empty map and the unchanged body.
func Parse(content string) (Document, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, delimiter+"\n") {
		return Document{FrontMatter: map[string]any{}, Body: content}, nil
	}

	rest := normalized[len(delimiter)+1:]
	end := strings.Index(rest, "\n"+delimiter)
	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter):
		header = ""
		body = strings.TrimPrefix(rest[len(delimiter):], "\n")
	case end >= 0:
		header = rest[:end]
		body = rest[end+len(delimiter)+1:]
		body = strings.TrimPrefix(body, "\n")
	default:
		return Document{FrontMatter: map[string]any{}, Body: content}, nil
	}

	frontMatter := map[string]any{}
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &frontMatter); err != nil {
			return Document{}, fmt.Errorf("invalid front matter: %w", err)
		}
	}
	if frontMatter == nil {
		frontMatter = map[string]any{}
	}
	return Document{FrontMatter: frontMatter, Body: body}, nil
}

// String renders the document back to Markdown, omitting empty front matter.
func (d Document) String() string {
	if len(d.FrontMatter) == 0 {
		return d.Body
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(d.FrontMatter); err != nil {
		return d.Body
	}
	_ = encoder.Close()
	return delimiter + "\n" + buffer.String() + delimiter + "\n" + d.Body
}

// SetField sets key in content's front matter, keeping every other key, and
// returns the rewritten Markdown. An empty value leaves content unchanged.
func SetField(content string, key string, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return content, nil
	}
	document, err := Parse(content)
	if err != nil {
		return "", err
	}
	document.FrontMatter[key] = value
	return document.String(), nil
}

// MergeSummary sets the summary key in content's front matter.
func MergeSummary(content string, summary string) (string, error) {
	return SetField(content, "summary", summary)
}

func (d Document) stringField(key string) string {
	value, ok := d.FrontMatter[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func (d Document) Title() string       { return d.stringField("title") }
func (d Document) Summary() string     { return d.stringField("summary") }
func (d Document) Description() string { return d.stringField("description") }
func (d Document) Image() string       { return d.stringField("image") }

// DisplayTitle picks the front matter title, then the on-chain name.
func DisplayTitle(document Document, name string) string {
	if title := document.Title(); title != "" {
		return title
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return untitled
}

// Preview returns the body for verified works and its first 140 characters
// otherwise.
func Preview(document Document, verified bool) string {
	if verified {
		return document.Body
	}
	runes := []rune(document.Body)
	if len(runes) <= previewRuneLimit {
		return document.Body
	}
	return string(runes[:previewRuneLimit])
}
