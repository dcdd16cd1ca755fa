package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/domain"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RulesURI identifies the rule table resource.
const RulesURI = "chazz://rules"

// DocumentResult aligns with the HTTP API and provides a unified structure across adapters.
type DocumentResult struct {
	Text    string `json:"text" jsonschema_description:"The converted text"`
	Skipped bool   `json:"skipped" jsonschema_description:"True when the document has nothing under the key"`
	Reason  string `json:"reason,omitempty" jsonschema_description:"Why the document was skipped"`
}

// DocumentArgs are the arguments of the convert_document tool.
type DocumentArgs struct {
	Document string `json:"document"`
	Key      string `json:"key"`
	Format   string `json:"format,omitempty"`
}

// Server wraps the markup engine and exposes it as an MCP Server.
type Server struct {
	engine    *markup.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool failures and transport events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *markup.Engine, version string, opts ...Option) *Server {
	if engine == nil {
		engine = markup.NewEngine()
	}
	s := &Server{
		engine:    engine,
		logger:    slog.New(slog.DiscardHandler),
		mcpServer: server.NewMCPServer("chazz-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: transform_markup
	s.mcpServer.AddTool(mcp.NewTool("transform_markup",
		mcp.WithDescription("Rewrite inline {@tag ...} markup into Markdown."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text containing {@tag ...} markup")),
		mcp.WithString("format", mcp.Description("Output format: markdown (default) or html"), mcp.Enum("markdown", "html")),
	), s.handleTransform)

	// TOOL: convert_document
	s.mcpServer.AddTool(mcp.NewTool("convert_document",
		mcp.WithDescription("Select a field from a JSON document and rewrite its markup."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The JSON document")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Top-level field to convert")),
		mcp.WithString("format", mcp.Description("Output format: markdown (default) or html"), mcp.Enum("markdown", "html")),
		mcp.WithOutputSchema[DocumentResult](),
	), mcp.NewStructuredToolHandler(s.handleConvertDocument))

	// TOOL: list_rules
	s.mcpServer.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the rewrite rules in application order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := s.rulesJSON()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleTransform(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := convert.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := format.Render(s.engine.Transform(text))
	if err != nil {
		s.logger.Error("MCP Transform: Render failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleConvertDocument(ctx context.Context, request mcp.CallToolRequest, args DocumentArgs) (DocumentResult, error) {
	format, err := convert.ParseFormat(args.Format)
	if err != nil {
		return DocumentResult{}, err
	}

	value, err := domain.DecodeValue([]byte(args.Document))
	if err != nil {
		return DocumentResult{}, fmt.Errorf("document is not valid JSON: %w", err)
	}

	field, err := convert.SelectField(value, args.Key)
	if err != nil {
		return DocumentResult{}, err
	}

	switch f := field.(type) {
	case convert.Missing:
		return DocumentResult{Skipped: true, Reason: f.Reason}, nil
	case convert.Text:
		out, err := format.Render(s.engine.Transform(string(f)))
		if err != nil {
			return DocumentResult{}, err
		}
		return DocumentResult{Text: out}, nil
	default:
		return DocumentResult{}, fmt.Errorf("unexpected field type %T", field)
	}
}

func (s *Server) rulesJSON() ([]byte, error) {
	data, err := json.Marshal(s.engine.Table().Describe())
	if err != nil {
		return nil, fmt.Errorf("failed to encode rules: %w", err)
	}
	return data, nil
}

func (s *Server) registerResources() {
	// EXPOSE: chazz://rules
	s.mcpServer.AddResource(mcp.NewResource(RulesURI, "Rewrite Rule Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := s.rulesJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      RulesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
