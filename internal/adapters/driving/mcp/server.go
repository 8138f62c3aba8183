package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
	"github.com/ALEX8642/LLM-chatbot/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// HTTP paths served next to the MCP endpoint.
const (
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

const shutdownTimeout = 5 * time.Second

const instructions = `Answers questions about ingested product manuals.
Call list_manuals first, then ask with a manual_id. Answers cite pages as [Page N].`

// Server is the MCP server for manualqa.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{Name: "manualqa", Version: Version}
	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler. metrics, when non-nil, is
// mounted at MetricsPath; HealthPath is mounted when a health port is set.
func (s *Server) Handler(metrics http.Handler) http.Handler {
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	if metrics == nil && s.ports.Health == nil {
		return mcpHandler
	}

	mux := http.NewServeMux()
	if metrics != nil {
		mux.Handle(MetricsPath, metrics)
	}
	if s.ports.Health != nil {
		mux.HandleFunc(HealthPath, s.serveHealth)
	}
	mux.Handle("/", mcpHandler)
	return mux
}

// serveHealth writes the component report; any unhealthy component yields 503.
func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	report := s.ports.Health.Check(r.Context())

	status := http.StatusOK
	for _, h := range report {
		if !h.Healthy() {
			status = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Healthy    bool                     `json:"healthy"`
		Components []domain.ComponentHealth `json:"components"`
	}{status == http.StatusOK, report})
}

// RunHTTP serves Handler(metrics) on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) RunHTTP(ctx context.Context, addr string, metrics http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP HTTP shutdown: %v", err)
		}
	}()

	logger.Info("MCP server on http://%s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
