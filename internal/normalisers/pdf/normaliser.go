// Package pdf normalises PDF documents by shelling out to pdftotext.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CommandRunner executes an external command and returns its stdout.
// Swappable for tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Normaliser extracts text from PDF files using the poppler
// pdftotext binary. A missing binary surfaces as an unsupported type
// for that file; batch ingestion continues past it.
type Normaliser struct {
	runner CommandRunner
}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{runner: execRunner{}}
}

// NewWithRunner creates a PDF normaliser with a custom command
// runner, for tests.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Normalise converts the PDF at path to plain text. Page breaks
// become blank lines so the chunker sees them as section boundaries.
func (n *Normaliser) Normalise(ctx context.Context, path string, _ []byte) (string, error) {
	out, err := n.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		if isNotInstalled(err) {
			return "", fmt.Errorf("%w: pdftotext not installed", domain.ErrUnsupportedType)
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}

	// pdftotext separates pages with form feeds.
	text := strings.ReplaceAll(string(out), "\f", "\n\n")
	return strings.TrimSpace(text), nil
}

// isNotInstalled reports whether the error means the binary is absent.
func isNotInstalled(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound)
}
