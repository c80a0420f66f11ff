package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/picket"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// WidgetArgs mirrors the wire descriptor fields a script host supplies when
// encoding a widget through MCP.
type WidgetArgs struct {
	ID                     string          `mapstructure:"id"`
	Options                []domain.Option `mapstructure:"options"`
	Default                []uint32        `mapstructure:"default"`
	Disabled               bool            `mapstructure:"disabled"`
	ClickMode              int32           `mapstructure:"clickMode"`
	FormID                 string          `mapstructure:"formId"`
	SelectionVisualization int32           `mapstructure:"selectionVisualization"`
	Value                  []uint32        `mapstructure:"value"`
	SetValue               bool            `mapstructure:"setValue"`
}

// EncodeResult is the structured output of the encode_widget tool.
type EncodeResult struct {
	Descriptor domain.WidgetDescriptor `json:"descriptor" jsonschema_description:"The wire descriptor for the frontend"`
	Value      []uint32                `json:"value" jsonschema_description:"The value the script call returns"`
}

// ValuesResult is the structured output of the get_values tool.
type ValuesResult struct {
	Values map[string][]uint32 `json:"values" jsonschema_description:"Committed widget values keyed by widget ID"`
}

// Server wraps the Encoder and exposes it as an MCP Server.
type Server struct {
	encoder   *encoder.Encoder
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(enc *encoder.Encoder) *Server {
	s := &Server{
		encoder:   enc,
		mcpServer: server.NewMCPServer("picket-mcp", strings.TrimSpace(picket.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: encode_widget
	encodeTool := mcp.NewTool("encode_widget",
		mcp.WithDescription("Encode a widget descriptor for the current rerun pass and resolve its value."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session the widget belongs to")),
		mcp.WithObject("widget", mcp.Required(), mcp.Description("Widget definition (id, options, default, clickMode, formId, ...)")),
		mcp.WithOutputSchema[EncodeResult](),
	)
	s.mcpServer.AddTool(encodeTool, mcp.NewStructuredToolHandler(s.handleEncode))

	// TOOL: begin_run
	s.mcpServer.AddTool(mcp.NewTool("begin_run",
		mcp.WithDescription("Start a new rerun pass for a session, dropping interest in stale widgets."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session starting a rerun")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.encoder.BeginRun(sessionID)
		return mcp.NewToolResultText("ok"), nil
	})

	// TOOL: submit_value
	submitTool := mcp.NewTool("submit_value",
		mcp.WithDescription("Commit a value-update message for a widget."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session the widget belongs to")),
		mcp.WithString("widget_id", mcp.Required(), mcp.Description("Widget instance key")),
		mcp.WithArray("value", mcp.Required(), mcp.Description("Selected option indices")),
	)
	s.mcpServer.AddTool(submitTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		sessionID, _ := args["session_id"].(string)
		widgetID, _ := args["widget_id"].(string)

		var value []uint32
		if err := decodeArgs(args["value"], &value); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid value: %v", err)), nil
		}

		if err := s.encoder.HandleUpdate(ctx, sessionID, domain.ValueUpdate{ID: widgetID, Value: value}); err != nil {
			slog.Warn("MCP submit_value rejected", "session_id", sessionID, "widget_id", widgetID, "err", err)
			return mcp.NewToolResultError(fmt.Sprintf("update rejected: %v", err)), nil
		}
		return mcp.NewToolResultText("ok"), nil
	})

	// TOOL: get_values
	valuesTool := mcp.NewTool("get_values",
		mcp.WithDescription("Read the committed widget values of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to inspect")),
		mcp.WithOutputSchema[ValuesResult](),
	)
	s.mcpServer.AddTool(valuesTool, mcp.NewStructuredToolHandler(s.handleGetValues))

	// TOOL: end_session
	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Evict all state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to end")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.encoder.EndSession(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end session failed: %v", err)), nil
		}
		return mcp.NewToolResultText("ok"), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleEncode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EncodeResult, error) {
	sessionID, _ := args["session_id"].(string)

	var widget WidgetArgs
	if err := decodeArgs(args["widget"], &widget); err != nil {
		return EncodeResult{}, fmt.Errorf("invalid widget definition: %w", err)
	}

	req := encoder.EncodeRequest{
		ID:            widget.ID,
		Options:       widget.Options,
		Default:       widget.Default,
		Disabled:      widget.Disabled,
		ClickMode:     domain.ClickMode(widget.ClickMode),
		FormID:        widget.FormID,
		Visualization: domain.SelectionVisualization(widget.SelectionVisualization),
	}
	if widget.SetValue {
		req.Value = widget.Value
		if req.Value == nil {
			req.Value = []uint32{}
		}
	}

	desc, value, err := s.encoder.Encode(ctx, sessionID, req)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("encode failed: %w", err)
	}

	return EncodeResult{Descriptor: desc, Value: value}, nil
}

func (s *Server) handleGetValues(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValuesResult, error) {
	sessionID, _ := args["session_id"].(string)

	values, err := s.encoder.Values(ctx, sessionID)
	if err != nil {
		return ValuesResult{}, fmt.Errorf("get values failed: %w", err)
	}
	return ValuesResult{Values: values}, nil
}

// decodeArgs converts loosely-typed JSON arguments (maps, float64 numbers)
// into the target struct or slice.
func decodeArgs(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
