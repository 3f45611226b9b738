package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/runner"
)

// ServerName is announced to MCP clients.
const ServerName = "bqa-insight"

// Catalog describes what the bot knows, for introspection tools.
type Catalog interface {
	Intents() []string
	Prompts() *prompts.Library
}

// StartArgs is empty; start_session takes no input.
type StartArgs struct{}

// SendArgs are the arguments of send_message.
type SendArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// SessionArgs are the arguments of get_session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// PromptArgs are the arguments of render_prompt.
type PromptArgs struct {
	Name string `json:"name"`
	prompts.Data
}

// PromptResult is the rendered prompt.
type PromptResult struct {
	Name   string `json:"name" jsonschema_description:"Template name"`
	Prompt string `json:"prompt" jsonschema_description:"Rendered prompt text"`
}

// Server exposes the chat simulator as MCP tools, so an assistant can walk
// the dialog the way a user of the chat front end would.
type Server struct {
	sim       *runner.Simulator
	catalog   Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog enables the intent and prompt introspection tools.
func WithCatalog(c Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sim *runner.Simulator, version string, opts ...Option) *Server {
	s := &Server{
		sim:       sim,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer(ServerName, strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if s.catalog != nil {
		s.registerCatalog()
	}
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Open a new conversation at the main menu and return the first question."),
		mcp.WithOutputSchema[runner.Reply](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Answer the current question of a conversation. Send 'back' to revisit the previous question or 'menu' to return to the main menu."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id returned by start_session")),
		mcp.WithString("message", mcp.Required(), mcp.Description("User text; one of the listed options when options are offered")),
		mcp.WithOutputSchema[runner.Reply](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSend))

	getTool := mcp.NewTool("get_session",
		mcp.WithDescription("Show the question a conversation is waiting on, without answering it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation id")),
		mcp.WithOutputSchema[runner.Reply](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGet))
}

func (s *Server) registerCatalog() {
	s.mcpServer.AddTool(mcp.NewTool("list_intents",
		mcp.WithDescription("List the intents that have a dialog tree."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(s.catalog.Intents(), "\n")), nil
	})

	promptTool := mcp.NewTool("render_prompt",
		mcp.WithDescription("Render a prompt template offline, without calling the model."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Template name, e.g. analyze_school")),
		mcp.WithString("subject", mcp.Description("Institute, programme or list of institutes")),
		mcp.WithString("aspect", mcp.Description("Review aspect or standard")),
		mcp.WithString("others", mcp.Description("Institutes compared with the subject")),
		mcp.WithString("scope", mcp.Description("Whole sector, e.g. All Government Schools")),
		mcp.WithString("governorate", mcp.Description("Governorate restricting a comparison")),
		mcp.WithString("question", mcp.Description("Free-text question")),
		mcp.WithString("text", mcp.Description("Analysis to extract chart data from")),
		mcp.WithOutputSchema[PromptResult](),
	)
	s.mcpServer.AddTool(promptTool, mcp.NewStructuredToolHandler(s.handleRenderPrompt))

	s.mcpServer.AddResource(mcp.NewResource("bqa://prompts", "Prompt templates",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		lib := s.catalog.Prompts()
		index := make(map[string]string)
		for _, name := range lib.Names() {
			index[name] = lib.Describe(name)
		}
		data, err := json.Marshal(index)
		if err != nil {
			return nil, fmt.Errorf("failed to encode prompt index: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "bqa://prompts",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (runner.Reply, error) {
	reply, err := s.sim.Start(ctx)
	if err != nil {
		return runner.Reply{}, err
	}
	return *reply, nil
}

func (s *Server) handleSend(ctx context.Context, request mcp.CallToolRequest, args SendArgs) (runner.Reply, error) {
	if args.SessionID == "" {
		return runner.Reply{}, errors.New("session_id is required")
	}
	reply, err := s.sim.Send(ctx, args.SessionID, args.Message)
	if err != nil {
		if runner.IsInputError(err) {
			s.logger.WarnContext(ctx, "MCP send_message: input rejected", "session_id", args.SessionID, "err", err, "size", len(args.Message))
			return runner.Reply{}, fmt.Errorf("input rejected: %w", err)
		}
		return runner.Reply{}, err
	}
	return *reply, nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (runner.Reply, error) {
	if args.SessionID == "" {
		return runner.Reply{}, errors.New("session_id is required")
	}
	_, reply, err := s.sim.Current(ctx, args.SessionID)
	if err != nil {
		return runner.Reply{}, err
	}
	return *reply, nil
}

func (s *Server) handleRenderPrompt(ctx context.Context, request mcp.CallToolRequest, args PromptArgs) (PromptResult, error) {
	text, err := s.catalog.Prompts().Render(args.Name, args.Data)
	if err != nil {
		return PromptResult{}, err
	}
	return PromptResult{Name: args.Name, Prompt: text}, nil
}
