package mcp

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	records []domain.RetrievedRecord
	answer  domain.Answer
	err     error
}

func (m *mockAnswerService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedRecord, error) {
	return m.records, m.err
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ int) (domain.Answer, error) {
	return m.answer, m.err
}

// mockMemoryService is a mock implementation of driving.MemoryService.
type mockMemoryService struct {
	written []domain.MemoryFact
	context string
	err     error
}

func (m *mockMemoryService) ProcessTurn(_ context.Context, _, _ string) ([]domain.MemoryFact, error) {
	return m.written, m.err
}

func (m *mockMemoryService) Context(_ context.Context, _ domain.MemoryTarget) (string, error) {
	return m.context, m.err
}
