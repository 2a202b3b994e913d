package normalisers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
	"github.com/custodia-labs/anchora/internal/normalisers/markdown"
	"github.com/custodia-labs/anchora/internal/normalisers/pdf"
	"github.com/custodia-labs/anchora/internal/normalisers/plaintext"
)

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers. Later
// registrations win on extension conflicts.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		for _, ext := range n.SupportedExtensions() {
			r.byExt[strings.ToLower(ext)] = n
		}
	}
	return r
}

// Defaults returns a registry with the built-in normalisers:
// plain text, markdown and PDF.
func Defaults() *Registry {
	return NewRegistry(plaintext.New(), markdown.New(), pdf.New())
}

// Supports reports whether any registered normaliser handles the
// file's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Parse reads the file and converts it to plain text. Files with an
// unrecognised extension fail with domain.ErrUnsupportedType.
func (r *Registry) Parse(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	n, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text, err := n.Normalise(ctx, path, content)
	if err != nil {
		return "", fmt.Errorf("normalise %s: %w", path, err)
	}
	return text, nil
}
