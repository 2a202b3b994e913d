package domain

import "strings"

// MemoryTarget is the scope a durable fact belongs to.
type MemoryTarget string

// Memory targets. Each target is backed by its own durable store.
const (
	TargetUser    MemoryTarget = "USER"
	TargetCompany MemoryTarget = "COMPANY"
)

// ParseMemoryTarget normalises a target string. It returns false for
// anything other than the two known targets.
func ParseMemoryTarget(s string) (MemoryTarget, bool) {
	switch MemoryTarget(strings.ToUpper(strings.TrimSpace(s))) {
	case TargetUser:
		return TargetUser, true
	case TargetCompany:
		return TargetCompany, true
	default:
		return "", false
	}
}

// MinConfidence is the extraction-time threshold below which memory
// candidates are discarded. The boundary is inclusive: 0.8 passes.
const MinConfidence = 0.8

// MemoryFact is a single durable statement scoped to a target store.
// Facts are appended, never mutated or deleted.
type MemoryFact struct {
	Target MemoryTarget `json:"target"`

	// Summary is the human-readable fact text. Within one target's
	// store no two facts share the same case-insensitive summary.
	Summary string `json:"summary"`

	// Confidence is set by the extraction step and used only for
	// filtering; it is not persisted.
	Confidence float64 `json:"confidence,omitempty"`
}

// DedupKey returns the case-insensitive key under which the fact's
// summary is deduplicated within its target store.
func (f MemoryFact) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(f.Summary))
}
