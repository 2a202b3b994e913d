package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to ground the answer on (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	Citations []CitationOutput `json:"citations"`
}

// CitationOutput is one citation backing an answer.
type CitationOutput struct {
	Source  string `json:"source"`
	Locator string `json:"locator"`
	Snippet string `json:"snippet"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to search the indexed documents for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Records []RecordOutput `json:"records"`
	Count   int            `json:"count"`
}

// RecordOutput is one retrieved passage.
type RecordOutput struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Locator string `json:"locator"`
	Snippet string `json:"snippet"`
}

// RememberInput is the input schema for the remember tool.
type RememberInput struct {
	UserMessage      string `json:"user_message" jsonschema:"the user's message in the conversation turn"`
	AssistantMessage string `json:"assistant_message" jsonschema:"the assistant's reply in the conversation turn"`
}

// RememberOutput is the output schema for the remember tool.
type RememberOutput struct {
	Written []FactOutput `json:"written"`
	Count   int          `json:"count"`
}

// FactOutput is one newly persisted memory fact.
type FactOutput struct {
	Target  string `json:"target"`
	Summary string `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the indexed documents, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant indexed passages for a query",
	}, s.handleRetrieve)

	if s.ports.Memory != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "remember",
			Description: "Extract and persist durable facts from a conversation turn",
		}, s.handleRemember)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		Citations: make([]CitationOutput, len(answer.Citations)),
	}
	for i, c := range answer.Citations {
		output.Citations[i] = CitationOutput{
			Source:  c.Source,
			Locator: c.Locator,
			Snippet: c.Snippet,
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	records, err := s.ports.Answer.Retrieve(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Records: make([]RecordOutput, len(records)),
		Count:   len(records),
	}
	for i, r := range records {
		output.Records[i] = RecordOutput{
			Text:    r.Text,
			Source:  r.Source,
			Locator: r.Locator,
			Snippet: r.Snippet,
		}
	}

	return nil, output, nil
}

// handleRemember handles the remember tool invocation.
func (s *Server) handleRemember(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RememberInput,
) (*mcp.CallToolResult, RememberOutput, error) {
	written, err := s.ports.Memory.ProcessTurn(ctx, input.UserMessage, input.AssistantMessage)
	if err != nil {
		return nil, RememberOutput{}, err
	}

	output := RememberOutput{
		Written: make([]FactOutput, len(written)),
		Count:   len(written),
	}
	for i, f := range written {
		output.Written[i] = FactOutput{
			Target:  string(f.Target),
			Summary: f.Summary,
		}
	}

	return nil, output, nil
}
