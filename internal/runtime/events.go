package runtime

import (
	"context"
	"time"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

func (e *Engine) base(s *domain.Session, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: s.ID}
}

func (e *Engine) emitTurn(ctx context.Context, s *domain.Session, act domain.Action) {
	if e.hooks.OnTurn == nil {
		return
	}
	e.hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: e.base(s, domain.EventTurn),
		Intent:    s.Intent.Name,
		Action:    act.Kind,
		Slot:      act.Slot,
	})
}

func (e *Engine) emitNavigate(ctx context.Context, s *domain.Session, command string, from, to domain.HistoryEntry) {
	if e.hooks.OnNavigate == nil {
		return
	}
	e.hooks.OnNavigate(ctx, &domain.NavigateEvent{
		EventBase: e.base(s, domain.EventNavigate),
		Command:   command,
		From:      from,
		To:        to,
	})
}

func (e *Engine) emitGenerate(ctx context.Context, s *domain.Session, purpose, outcome string, d time.Duration, err error) {
	if e.hooks.OnGenerate == nil {
		return
	}
	e.hooks.OnGenerate(ctx, &domain.GenerateEvent{
		EventBase: e.base(s, domain.EventGenerate),
		Purpose:   purpose,
		Outcome:   outcome,
		Duration:  d,
		Err:       err,
	})
}
