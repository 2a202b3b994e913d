// Package markdown normalises Markdown documents.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents. Heading markers are kept:
// the chunker reads them to tag chunks with their section, so the
// locator of a markdown chunk stays traceable to its heading.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise strips markdown decoration that adds no retrieval value
// (images, link targets, emphasis markers) while preserving headings
// and body text.
func (n *Normaliser) Normalise(_ context.Context, _ string, content []byte) (string, error) {
	if content == nil {
		return "", domain.ErrInvalidInput
	}

	text := string(content)

	// Remove images ![alt](url)
	images := regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	text = images.ReplaceAllString(text, "")

	// Convert links [text](url) to just text
	links := regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	text = links.ReplaceAllString(text, "$1")

	// Remove bold/italic markers
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")

	// Collapse runs of blank lines so section splitting stays stable
	multiNewlines := regexp.MustCompile(`\n{3,}`)
	text = multiNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}
