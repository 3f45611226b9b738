package runtime

import (
	"context"
	"errors"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

const (
	commandRetry = "retry"
	commandMenu  = "menu"
)

var rootEntry = domain.HistoryEntry{Intent: domain.RootIntent, Slot: domain.RootSlot}

// returnToMenu forgets everything gathered so far and asks for the root menu again.
func (e *Engine) returnToMenu(ctx context.Context, s *domain.Session) domain.Action {
	from, _ := s.History.Top()
	e.reset(s)
	e.emitNavigate(ctx, s, commandMenu, from, rootEntry)
	return domain.ElicitIntent(domain.RootIntent, domain.RootSlot)
}

// retry moves the user back one step: the entry being elicited is popped and the
// slot below it is asked again.
func (e *Engine) retry(ctx context.Context, s *domain.Session) domain.Action {
	popped, err := s.History.Pop()
	if errors.Is(err, domain.ErrEmptyHistory) {
		e.logger.DebugContext(ctx, "retry on empty history", "session_id", s.ID)
		e.reset(s)
		e.emitNavigate(ctx, s, commandRetry, popped, rootEntry)
		return domain.ElicitIntent(domain.RootIntent, domain.RootSlot)
	}

	top, ok := s.History.Top()
	if !ok {
		e.reset(s)
		e.emitNavigate(ctx, s, commandRetry, popped, rootEntry)
		return domain.ElicitIntent(domain.RootIntent, domain.RootSlot)
	}
	e.emitNavigate(ctx, s, commandRetry, popped, top)

	if top.Intent != popped.Intent || top.Intent != s.Intent.Name {
		// The abandoned intent is not stashed; the target intent gets its
		// stashed slots back minus the one being asked again.
		s.Intent.Slots = nil
		restored := s.Stash.Take(top.Intent)
		delete(restored, top.Slot)
		return domain.ElicitIntent(top.Intent, top.Slot).WithSlots(restored)
	}

	s.ClearSlot(popped.Slot)
	s.ClearSlot(top.Slot)
	return domain.ElicitSlot(top.Slot)
}

// reset clears history, stash and slots. The root entry is pushed back when the
// resulting action is applied.
func (e *Engine) reset(s *domain.Session) {
	s.History = domain.History{}
	s.Stash = domain.Stash{}
	s.Intent.Slots = nil
	s.ChartData = ""
}
