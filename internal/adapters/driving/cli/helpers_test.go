package cli

import (
	"context"

	"github.com/custodia-labs/anchora/internal/core/domain"
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
)

// setupTestServices swaps the package-level services for mocks and
// marks wiring as done so PersistentPreRunE skips initServices.
func setupTestServices() func() {
	prevIngest := ingestService
	prevAnswer := answerService
	prevMemory := memoryService
	prevReady := servicesReady

	ingestService = &stubIngestService{}
	answerService = &stubAnswerService{
		answer: domain.Answer{
			Text: "Stub answer.",
			Citations: []domain.Citation{
				{Source: "doc.txt", Locator: "chunk 0", Snippet: "stub snippet"},
			},
		},
	}
	memoryService = &stubMemoryService{
		written: []domain.MemoryFact{
			{Target: domain.TargetUser, Summary: "User prefers Mondays."},
		},
		context: "- User prefers Mondays.",
	}
	servicesReady = true

	return func() {
		ingestService = prevIngest
		answerService = prevAnswer
		memoryService = prevMemory
		servicesReady = prevReady
	}
}

type stubIngestService struct {
	fileErr error
}

func (s *stubIngestService) IngestFile(_ context.Context, _ string) (int, error) {
	if s.fileErr != nil {
		return 0, s.fileErr
	}
	return 3, nil
}

func (s *stubIngestService) IngestDir(_ context.Context, _ string) (driving.IngestReport, error) {
	return driving.IngestReport{FilesIndexed: 2, ChunksIndexed: 6, Skipped: map[string]error{}}, nil
}

func (s *stubIngestService) Reset(_ context.Context) error {
	return nil
}

type stubAnswerService struct {
	answer domain.Answer
}

func (s *stubAnswerService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedRecord, error) {
	return nil, nil
}

func (s *stubAnswerService) Answer(_ context.Context, _ string, _ int) (domain.Answer, error) {
	return s.answer, nil
}

type stubMemoryService struct {
	written []domain.MemoryFact
	context string
}

func (s *stubMemoryService) ProcessTurn(_ context.Context, _, _ string) ([]domain.MemoryFact, error) {
	return s.written, nil
}

func (s *stubMemoryService) Context(_ context.Context, _ domain.MemoryTarget) (string, error) {
	return s.context, nil
}
