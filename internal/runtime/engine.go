package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// DefaultGenerateTimeout bounds a single generator call.
const DefaultGenerateTimeout = 25 * time.Second

// HandlerFunc handles every turn of an intent that has no step tree.
type HandlerFunc func(ctx context.Context, s *domain.Session) (domain.Action, error)

// ChartPromptFunc builds the chart extraction prompt for an analysis.
type ChartPromptFunc func(analysis string) (string, error)

// Engine is the dialog dispatcher. It holds no per-session state; every turn
// carries its session inside the event.
type Engine struct {
	trees       map[string]*domain.Step
	handlers    map[string]HandlerFunc
	generator   ports.Generator
	timeout     time.Duration
	chartPrompt ChartPromptFunc
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithGenerateTimeout bounds every generator call. Zero keeps the default.
func WithGenerateTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithHandler routes intent to a fixed handler instead of a step tree.
func WithHandler(intent string, h HandlerFunc) EngineOption {
	return func(e *Engine) {
		e.handlers[intent] = h
	}
}

// WithChartData enables chart extraction after every successful analysis.
func WithChartData(fn ChartPromptFunc) EngineOption {
	return func(e *Engine) {
		e.chartPrompt = fn
	}
}

// WithClock overrides the time source used for events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a dispatcher over the given step trees, keyed by intent name.
func NewEngine(trees map[string]*domain.Step, gen ports.Generator, opts ...EngineOption) *Engine {
	e := &Engine{
		trees:     trees,
		handlers:  make(map[string]HandlerFunc),
		generator: gen,
		timeout:   DefaultGenerateTimeout,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tree returns the step tree of intent.
func (e *Engine) Tree(intent string) (*domain.Step, bool) {
	t, ok := e.trees[intent]
	return t, ok
}

// Fulfill processes one dialog turn.
//
// Navigation flags are honoured before intent dispatch: returnToMenu wins over
// retry, and ordinary dispatch only runs when neither is set.
func (e *Engine) Fulfill(ctx context.Context, ev *domain.Event) (*domain.Response, error) {
	s, err := domain.NewSession(ev)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With("session_id", s.ID, "intent", s.Intent.Name)
	for _, w := range s.Warnings {
		logger.WarnContext(ctx, "recovered corrupt session state", "err", w)
	}

	var act domain.Action
	switch {
	case s.ReturnToMenu:
		act = e.returnToMenu(ctx, s)
	case s.Retry:
		act = e.retry(ctx, s)
	default:
		act, err = e.dispatch(ctx, s)
		if err != nil {
			logger.ErrorContext(ctx, "fulfillment failed", "err", err)
			return nil, err
		}
	}

	resp := e.render(s, act)
	logger.DebugContext(ctx, "turn fulfilled", "action", act.Kind, "slot", resp.SlotToElicit())
	e.emitTurn(ctx, s, act)
	return resp, nil
}

// dispatch routes the turn by intent name.
func (e *Engine) dispatch(ctx context.Context, s *domain.Session) (domain.Action, error) {
	if h, ok := e.handlers[s.Intent.Name]; ok {
		act, err := h(ctx, s)
		if err != nil {
			return domain.Action{}, &FulfillmentError{Intent: s.Intent.Name, Cause: err}
		}
		return act, nil
	}

	tree, ok := e.trees[s.Intent.Name]
	if !ok {
		e.logger.WarnContext(ctx, "no route for intent", "session_id", s.ID, "intent", s.Intent.Name, "err", domain.ErrNoHandler)
		return domain.Close(domain.MessageUnknownIntent), nil
	}
	return e.processStep(ctx, s, tree)
}
