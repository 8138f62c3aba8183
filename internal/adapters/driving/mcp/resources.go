package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for manualqa resources.
	uriScheme = "manualqa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the manual catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "manuals",
		Name:        "manuals",
		Description: "Catalog of ingested manuals",
		MIMEType:    "application/json",
	}, s.handleManualsResource)

	// Template for a single catalog entry.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "manuals/{manualId}",
		Name:        "manual",
		Description: "Catalog entry for one manual",
		MIMEType:    "application/json",
	}, s.handleManualResource)
}

// handleManualsResource returns the whole catalog.
func (s *Server) handleManualsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	manuals := []domain.Manual{}
	if s.ports.Catalog != nil {
		list, err := s.ports.Catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing manuals: %w", err)
		}
		if len(list) > 0 {
			manuals = list
		}
	}

	return jsonResource(req.Params.URI, manuals)
}

// handleManualResource returns one catalog entry.
func (s *Server) handleManualResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract manualId from URI: manualqa://manuals/{manualId}
	manualID := extractManualID(req.Params.URI)
	if manualID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	manual, err := s.ports.Catalog.Get(ctx, manualID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting manual: %w", err)
	}

	return jsonResource(req.Params.URI, manual)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractManualID extracts the manual ID from a URI like manualqa://manuals/{manualId}.
func extractManualID(uri string) string {
	const prefix = uriScheme + "manuals/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
