package pdf

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestSupportedExtensions(t *testing.T) {
	n := New()
	assert.Equal(t, []string{".pdf"}, n.SupportedExtensions())
}

func TestNormalise_PageBreaksBecomeSectionBoundaries(t *testing.T) {
	n := NewWithRunner(&mockRunner{output: []byte("page one\fpage two")})

	text, err := n.Normalise(context.Background(), "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "page one\n\npage two", text)
}

func TestNormalise_TrimsOutput(t *testing.T) {
	n := NewWithRunner(&mockRunner{output: []byte("\n\n  body text  \n")})

	text, err := n.Normalise(context.Background(), "report.pdf", nil)
	require.NoError(t, err)
	assert.Equal(t, "body text", text)
}

func TestNormalise_BinaryMissing(t *testing.T) {
	n := NewWithRunner(&mockRunner{err: &exec.Error{Name: "pdftotext", Err: exec.ErrNotFound}})

	_, err := n.Normalise(context.Background(), "report.pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNormalise_CommandFailure(t *testing.T) {
	n := NewWithRunner(&mockRunner{err: errors.New("exit status 1")})

	_, err := n.Normalise(context.Background(), "broken.pdf", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedType)
}
