package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/picket/internal/logging"
	"github.com/aretw0/picket/pkg/domain"
	"github.com/aretw0/picket/pkg/encoder"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EncodeBody is the JSON request body for the encode endpoint.
type EncodeBody struct {
	ID                     string                        `json:"id"`
	Options                []domain.Option               `json:"options"`
	Default                []uint32                      `json:"default,omitempty"`
	Disabled               bool                          `json:"disabled,omitempty"`
	ClickMode              domain.ClickMode              `json:"clickMode"`
	FormID                 string                        `json:"formId,omitempty"`
	SelectionVisualization domain.SelectionVisualization `json:"selectionVisualization,omitempty"`

	// Value with SetValue=true is a programmatic push.
	Value    []uint32 `json:"value,omitempty"`
	SetValue bool     `json:"setValue,omitempty"`
}

// EncodeResponse carries the wire descriptor plus the value the script call
// returns to the developer.
type EncodeResponse struct {
	Descriptor domain.WidgetDescriptor `json:"descriptor"`
	Value      []uint32                `json:"value"`
}

// Server exposes the encoder over HTTP for script hosts and frontends.
type Server struct {
	encoder *encoder.Encoder
	streams *StreamManager
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler around the encoder.
func NewHandler(enc *encoder.Encoder, opts ...Option) http.Handler {
	server := &Server{
		encoder: enc,
		streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Post("/sessions/{sessionID}/runs", server.beginRun)
	r.Post("/sessions/{sessionID}/widgets", server.encodeWidget)
	r.Post("/sessions/{sessionID}/updates", server.submitUpdate)
	r.Get("/sessions/{sessionID}/values", server.getValues)
	r.Get("/sessions/{sessionID}/values/{widgetID}", server.getValue)
	r.Delete("/sessions/{sessionID}", server.endSession)
	r.Get("/events", server.subscribeEvents)
	r.Get("/health", server.getHealth)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// beginRun handles POST /sessions/{sessionID}/runs.
// The rerun engine calls it at the start of every script pass.
func (s *Server) beginRun(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.encoder.BeginRun(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// encodeWidget handles POST /sessions/{sessionID}/widgets.
func (s *Server) encodeWidget(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body EncodeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("encode: invalid request body", "err", err)
		return
	}

	req := encoder.EncodeRequest{
		ID:            body.ID,
		Options:       body.Options,
		Default:       body.Default,
		Disabled:      body.Disabled,
		ClickMode:     body.ClickMode,
		FormID:        body.FormID,
		Visualization: body.SelectionVisualization,
	}
	if body.SetValue {
		req.Value = body.Value
		if req.Value == nil {
			req.Value = []uint32{}
		}
	}

	desc, value, err := s.encoder.Encode(r.Context(), sessionID, req)
	if err != nil {
		var cfg *encoder.ConfigurationError
		if errors.As(err, &cfg) {
			http.Error(w, cfg.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("Encode error: %v", err), http.StatusInternalServerError)
		s.logger.Error("encode failed", "session_id", sessionID, "err", err)
		return
	}

	// Push the fresh descriptor to any connected frontend.
	if bytes, err := json.Marshal(desc); err == nil {
		s.streams.Broadcast(sessionID, string(bytes))
	}

	writeJSON(w, s.logger, EncodeResponse{Descriptor: desc, Value: value})
}

// submitUpdate handles POST /sessions/{sessionID}/updates.
func (s *Server) submitUpdate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var update domain.ValueUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("update: invalid request body", "err", err)
		return
	}

	if err := s.encoder.HandleUpdate(r.Context(), sessionID, update); err != nil {
		switch {
		case errors.Is(err, domain.ErrWidgetNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrIndexOutOfRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, fmt.Sprintf("Update error: %v", err), http.StatusInternalServerError)
			s.logger.Error("update failed", "session_id", sessionID, "widget_id", update.ID, "err", err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getValues handles GET /sessions/{sessionID}/values.
func (s *Server) getValues(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	values, err := s.encoder.Values(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Values error: %v", err), http.StatusInternalServerError)
		s.logger.Error("values failed", "session_id", sessionID, "err", err)
		return
	}

	writeJSON(w, s.logger, values)
}

// getValue handles GET /sessions/{sessionID}/values/{widgetID}.
func (s *Server) getValue(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	widgetID := chi.URLParam(r, "widgetID")

	value, err := s.encoder.Value(r.Context(), sessionID, widgetID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrValueNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Value error: %v", err), http.StatusInternalServerError)
		s.logger.Error("value failed", "session_id", sessionID, "widget_id", widgetID, "err", err)
		return
	}

	writeJSON(w, s.logger, domain.ValueUpdate{ID: widgetID, Value: value})
}

// endSession handles DELETE /sessions/{sessionID}.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.encoder.EndSession(r.Context(), sessionID); err != nil {
		http.Error(w, fmt.Sprintf("End session error: %v", err), http.StatusInternalServerError)
		s.logger.Error("end session failed", "session_id", sessionID, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// subscribeEvents handles GET /events?session_id= (SSE descriptor stream).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("subscribe: streaming not supported")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id query parameter is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: subscribing to session descriptors", "session_id", sessionID)

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if subs, ok := sm.subscribers[sessionID]; ok {
		for ch := range subs {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
			}
		}
	}
}
