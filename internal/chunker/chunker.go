// Package chunker provides a section-aware, overlapping word chunker.
package chunker

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default accumulated character budget per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of trailing words carried into
// the next chunk.
const DefaultOverlap = 50

// sectionLabelWidth caps the display width of a section label.
const sectionLabelWidth = 80

// blankLine matches the blank-line boundaries that separate sections.
var blankLine = regexp.MustCompile(`\n\s*\n`)

// Chunker splits text into overlapping, section-tagged chunks.
// Words accumulate into a buffer at a cost of len(word)+1 each; when
// the accumulated length reaches the chunk size the buffer is emitted
// and reseeded with its trailing overlap words.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the character budget per chunk.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the number of trailing words seeded into the next
// chunk. An overlap at or above the chunk size degenerates toward
// near-duplicate consecutive chunks; that is accepted, not corrected.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Split chunks text for the given source. Empty input yields no
// chunks. Word order within a chunk is preserved exactly as
// encountered; chunk indexes are dense, starting at 0.
func (c *Chunker) Split(text, source string) []domain.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		chunks  []domain.Chunk
		buffer  []string
		length  int
		index   int
		section string
	)

	emit := func() {
		chunks = append(chunks, domain.Chunk{
			Text:    strings.Join(buffer, " "),
			Source:  source,
			Index:   index,
			Section: section,
		})
		index++
	}

	for _, sec := range blankLine.Split(text, -1) {
		sec = strings.TrimSpace(sec)
		if sec == "" {
			continue
		}

		// A heading-looking first line updates the section label for
		// every chunk emitted from here on, until overwritten.
		if label, ok := headingLabel(sec); ok {
			section = label
		}

		for _, word := range strings.Fields(sec) {
			buffer = append(buffer, word)
			length += len(word) + 1
			if length < c.chunkSize {
				continue
			}
			emit()

			// Seed the next chunk with the trailing overlap words,
			// or the whole buffer when it is shorter than that.
			if len(buffer) > c.overlap {
				buffer = append([]string(nil), buffer[len(buffer)-c.overlap:]...)
			} else {
				buffer = append([]string(nil), buffer...)
			}
			length = 0
			for _, w := range buffer {
				length += len(w) + 1
			}
		}
	}

	// Flush whatever remains; no further overlap seeding.
	if len(buffer) > 0 {
		emit()
	}

	return chunks
}

// headingLabel reports whether the section's first line looks like a
// heading (markdown marker or trailing colon) and returns the label,
// truncated to the display width.
func headingLabel(section string) (string, bool) {
	line, _, _ := strings.Cut(section, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if !strings.HasPrefix(line, "#") && !strings.HasSuffix(line, ":") {
		return "", false
	}
	if len(line) > sectionLabelWidth {
		line = strings.TrimSpace(line[:sectionLabelWidth])
	}
	return line, true
}
