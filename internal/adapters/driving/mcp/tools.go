package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// emptyCatalogMessage is reported when no manuals have been ingested.
const emptyCatalogMessage = "No manuals found. Run ingestion first."

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query    string `json:"query" jsonschema:"the question to answer"`
	ManualID string `json:"manual_id" jsonschema:"id of the manual to search, see list_manuals"`
	Model    string `json:"model,omitempty" jsonschema:"model name overriding the configured one"`
}

// ListManualsInput is the (empty) input schema for the list_manuals tool.
type ListManualsInput struct{}

// ListManualsOutput is the output schema for the list_manuals tool.
type ListManualsOutput struct {
	Manuals []domain.Manual `json:"manuals"`
	Count   int             `json:"count"`
	Message string          `json:"message,omitempty"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Path  string `json:"path" jsonschema:"document file or directory of manuals to ingest"`
	Reset bool   `json:"reset,omitempty" jsonschema:"discard both indexes before writing"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Manuals             int      `json:"manuals"`
	ChunksWrittenDense  int      `json:"chunks_written_dense"`
	ChunksWrittenSparse int      `json:"chunks_written_sparse"`
	DenseError          string   `json:"dense_error,omitempty"`
	SparseError         string   `json:"sparse_error,omitempty"`
	Skipped             []string `json:"skipped,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from one product manual, citing the pages used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_manuals",
		Description: "List the manuals available to ask about",
	}, s.handleListManuals)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Index a manual file or a directory of manuals",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, domain.Answer, error) {
	answer, err := s.ports.Ask.Ask(ctx, domain.AskRequest{
		Query:    input.Query,
		ManualID: input.ManualID,
		Model:    input.Model,
	})
	if err != nil {
		return nil, domain.Answer{}, err
	}
	return nil, *answer, nil
}

// handleListManuals handles the list_manuals tool invocation.
func (s *Server) handleListManuals(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListManualsInput,
) (*mcp.CallToolResult, ListManualsOutput, error) {
	output := ListManualsOutput{Manuals: []domain.Manual{}}
	if s.ports.Catalog == nil {
		output.Message = emptyCatalogMessage
		return nil, output, nil
	}

	manuals, err := s.ports.Catalog.List(ctx)
	if err != nil {
		return nil, ListManualsOutput{}, fmt.Errorf("listing manuals: %w", err)
	}

	if len(manuals) > 0 {
		output.Manuals = manuals
	}
	output.Count = len(manuals)
	if output.Count == 0 {
		output.Message = emptyCatalogMessage
	}
	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	report, err := s.ports.Ingest.Ingest(ctx, input.Path, domain.IngestOptions{Reset: input.Reset})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Manuals:             len(report.Manuals),
		ChunksWrittenDense:  report.Totals.DenseWritten,
		ChunksWrittenSparse: report.Totals.SparseWritten,
		DenseError:          report.Totals.DenseError,
		SparseError:         report.Totals.SparseError,
		Skipped:             report.Skipped,
	}, nil
}
