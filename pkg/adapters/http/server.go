// Package http exposes the fulfillment hook and the local simulator over HTTP.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	insight "github.com/bahrain-bp/bqa-insight-ai"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/runner"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 1 << 20

// Server holds the handlers' dependencies.
type Server struct {
	Bot       ports.Fulfiller
	Simulator *runner.Simulator
	Metrics   http.Handler
	Streams   *StreamManager
	Logger    *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithSimulator enables the /sessions routes.
func WithSimulator(sim *runner.Simulator) Option {
	return func(s *Server) {
		s.Simulator = sim
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for bot.
func NewHandler(bot ports.Fulfiller, opts ...Option) http.Handler {
	s := &Server{
		Bot:     bot,
		Streams: NewStreamManager(),
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/fulfillment", s.Fulfill)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	if s.Simulator != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.StartSession)
			r.Get("/{id}", s.GetSession)
			r.Delete("/{id}", s.DeleteSession)
			r.Post("/{id}/messages", s.SendMessage)
			r.Get("/{id}/events", s.SubscribeEvents)
		})
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fulfill handles POST /fulfillment: a platform event in, a platform response out.
func (s *Server) Fulfill(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := decode(w, r, &ev); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	resp, err := s.Bot.Fulfill(r.Context(), &ev)
	if err != nil {
		s.fail(w, r, statusOf(err), err)
		return
	}
	s.respond(w, http.StatusOK, resp)
}

// MessageRequest is the body of POST /sessions/{id}/messages.
// An empty message is accepted only when options is set; it then means "back".
type MessageRequest struct {
	Message string   `json:"message"`
	Options []string `json:"options,omitempty"`
}

// SessionResponse is returned by GET /sessions/{id}.
type SessionResponse struct {
	*runner.Reply
	Transcript []domain.Utterance  `json:"transcript"`
	State      domain.SessionState `json:"state"`
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	reply, err := s.Simulator.Start(r.Context())
	if err != nil {
		s.fail(w, r, statusOf(err), err)
		return
	}
	s.respond(w, http.StatusCreated, reply)
}

// SendMessage handles POST /sessions/{id}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body MessageRequest
	if err := decode(w, r, &body); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	text := strings.TrimSpace(body.Message)
	if text == "" {
		if len(body.Options) == 0 {
			s.fail(w, r, http.StatusBadRequest, errors.New("message is required"))
			return
		}
		text = runner.CommandBack
	}

	reply, err := s.Simulator.Send(r.Context(), id, text)
	if err != nil {
		s.fail(w, r, statusOf(err), err)
		return
	}
	if data, err := json.Marshal(reply); err == nil {
		s.Streams.Broadcast(id, string(data))
	}
	s.respond(w, http.StatusOK, reply)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	conv, reply, err := s.Simulator.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, statusOf(err), err)
		return
	}
	s.respond(w, http.StatusOK, SessionResponse{Reply: reply, Transcript: conv.Transcript, State: conv.State})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Simulator.Manager().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"app":       "bqa-insight",
		"version":   strings.TrimSpace(insight.Version),
		"simulator": s.Simulator != nil,
	})
}

// SubscribeEvents handles GET /sessions/{id}/events: every reply of the session as SSE.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE client subscribed", "session_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reply\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// StreamManager fans session replies out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for sessionID. The returned func unsubscribes.
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

// Broadcast delivers msg to every subscriber of sessionID, dropping it for slow clients.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// -- Helpers --

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidEvent), runner.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.Logger.Log(r.Context(), level, "request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	s.respond(w, status, map[string]string{"error": msg})
}
