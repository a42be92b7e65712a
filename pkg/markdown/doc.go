// Package markdown handles the YAML front matter Etched works carry ahead of
// their Markdown body.
package markdown
