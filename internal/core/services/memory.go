package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
	"github.com/custodia-labs/anchora/internal/logger"
)

// Ensure MemoryService implements the interface.
var _ driving.MemoryService = (*MemoryService)(nil)

// extractionPrompt asks the model for 0-2 durable facts per turn as a
// JSON array. Markdown code fences around the array are tolerated.
const extractionPrompt = `Analyze this conversation turn. Extract ONLY high-signal, reusable facts worth remembering.
Rules:
- USER facts: personal preferences, role, workflow preferences (e.g., "User prefers weekly summaries on Mondays", "User is a Project Finance Analyst")
- COMPANY facts: org-wide learnings, workflows, bottlenecks (e.g., "Asset Management interfaces with Project Finance", "Recurring bottleneck is X")
- Do NOT store: raw transcript, secrets, PII, low-value chitchat
- Be selective: only 0-2 facts per turn, high confidence only

Conversation turn:
%s

Respond with a JSON array of objects. Each object: {"target": "USER" or "COMPANY", "summary": "brief fact", "confidence": 0.0-1.0}
If nothing worth storing, return: []
Example: [{"target": "USER", "summary": "User prefers weekly summaries on Mondays.", "confidence": 0.9}]`

// MemoryService extracts durable facts from conversation turns and
// persists them through a FactStore.
type MemoryService struct {
	llm   driven.LLMService // optional, may be nil
	store driven.FactStore
}

// NewMemoryService creates a memory service. The llm parameter is
// optional (can be nil); without it no facts are ever extracted.
func NewMemoryService(llm driven.LLMService, store driven.FactStore) *MemoryService {
	return &MemoryService{llm: llm, store: store}
}

// memoryCandidate is the wire shape the extraction prompt asks for.
type memoryCandidate struct {
	Target     string  `json:"target"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// ProcessTurn extracts candidate facts from one exchange, filters by
// confidence, deduplicates against the stores and appends the
// survivors. Extraction failures yield an empty result, not an error.
func (s *MemoryService) ProcessTurn(ctx context.Context, userMessage, assistantMessage string) ([]domain.MemoryFact, error) {
	logger.Section("Memory")

	candidates := s.extract(ctx, userMessage, assistantMessage)
	if len(candidates) == 0 {
		logger.Debug("No memory candidates")
		return nil, nil
	}
	logger.Debug("Candidates: %d", len(candidates))

	// Dedup sets are rebuilt per call so externally edited stores are
	// honoured.
	existing := make(map[domain.MemoryTarget]map[string]struct{})

	var written []domain.MemoryFact
	for _, c := range candidates {
		target, ok := domain.ParseMemoryTarget(c.Target)
		if !ok {
			logger.Debug("Dropping candidate with unknown target %q", c.Target)
			continue
		}
		summary := strings.TrimSpace(c.Summary)
		if summary == "" {
			continue
		}

		fact := domain.MemoryFact{Target: target, Summary: summary, Confidence: c.Confidence}

		seen, ok := existing[target]
		if !ok {
			summaries, err := s.store.Summaries(ctx, target)
			if err != nil {
				return nil, fmt.Errorf("loading %s summaries: %w", target, err)
			}
			seen = make(map[string]struct{}, len(summaries))
			for _, sum := range summaries {
				seen[strings.ToLower(strings.TrimSpace(sum))] = struct{}{}
			}
			existing[target] = seen
		}

		if _, dup := seen[fact.DedupKey()]; dup {
			logger.Debug("Skipping duplicate fact for %s: %s", target, summary)
			continue
		}

		newlyWritten, err := s.store.Append(ctx, fact)
		if err != nil {
			return nil, fmt.Errorf("appending fact: %w", err)
		}
		// Suppress intra-call duplicates too.
		seen[fact.DedupKey()] = struct{}{}

		if newlyWritten {
			logger.Info("Remembered (%s): %s", target, summary)
			written = append(written, fact)
		}
	}

	return written, nil
}

// extract invokes the LLM and parses its JSON response. Any LLM or
// parse failure returns zero candidates; only facts at or above the
// confidence threshold survive.
func (s *MemoryService) extract(ctx context.Context, userMessage, assistantMessage string) []memoryCandidate {
	if s.llm == nil {
		return nil
	}

	turn := fmt.Sprintf("User: %s\nAssistant: %s", userMessage, assistantMessage)
	prompt := fmt.Sprintf(extractionPrompt, turn)

	content, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{Temperature: 0})
	if err != nil {
		logger.Warn("Memory extraction failed: %v", err)
		return nil
	}

	var items []memoryCandidate
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &items); err != nil {
		logger.Warn("Memory extraction returned malformed JSON: %v", err)
		return nil
	}

	var candidates []memoryCandidate
	for _, item := range items {
		if item.Confidence >= domain.MinConfidence {
			candidates = append(candidates, item)
		}
	}
	return candidates
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= 2 {
		return "[]"
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// Context loads a target's stored facts as a prompt-ready string. An
// empty store yields an empty string.
func (s *MemoryService) Context(ctx context.Context, target domain.MemoryTarget) (string, error) {
	summaries, err := s.store.Summaries(ctx, target)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, sum := range summaries {
		b.WriteString("- ")
		b.WriteString(sum)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
