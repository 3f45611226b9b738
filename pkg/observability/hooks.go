package observability

import (
	"context"
	"log/slog"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level, and failed generations at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn",
				"session_id", e.SessionID,
				"intent", e.Intent,
				"action", e.Action,
				"slot", e.Slot,
			)
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigateEvent) {
			logger.DebugContext(ctx, "navigate",
				"session_id", e.SessionID,
				"command", e.Command,
				"from", e.From.String(),
				"to", e.To.String(),
			)
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			level := slog.LevelDebug
			if e.Outcome != domain.OutcomeOK {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "generate",
				"session_id", e.SessionID,
				"purpose", e.Purpose,
				"outcome", e.Outcome,
				"duration", e.Duration,
				"err", e.Err,
			)
		},
	}
}

// Chain fans every event out to each set of hooks in order. Nil callbacks are skipped.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range hooks {
				if h.OnTurn != nil {
					h.OnTurn(ctx, e)
				}
			}
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigateEvent) {
			for _, h := range hooks {
				if h.OnNavigate != nil {
					h.OnNavigate(ctx, e)
				}
			}
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerateEvent) {
			for _, h := range hooks {
				if h.OnGenerate != nil {
					h.OnGenerate(ctx, e)
				}
			}
		},
	}
}
