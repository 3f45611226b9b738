package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn     EventType = "turn"
	EventNavigate EventType = "navigate"
	EventGenerate EventType = "generate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent is emitted once per fulfilled turn.
type TurnEvent struct {
	EventBase
	Intent string     `json:"intent"`
	Action ActionKind `json:"action"`
	Slot   string     `json:"slot,omitempty"`
}

// NavigateEvent is emitted when the user goes back a step or returns to the menu.
type NavigateEvent struct {
	EventBase
	Command string       `json:"command"` // "retry" or "menu"
	From    HistoryEntry `json:"from"`
	To      HistoryEntry `json:"to"`
}

// GenerateEvent is emitted after every generator call.
type GenerateEvent struct {
	EventBase
	Purpose  string        `json:"purpose"` // "answer" or "chart"
	Outcome  string        `json:"outcome"` // "ok", "throttled", "error", "empty"
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Generation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeThrottled = "throttled"
	OutcomeError     = "error"
	OutcomeEmpty     = "empty"
)

// LifecycleHooks defines callbacks for dispatcher observability.
type LifecycleHooks struct {
	OnTurn     func(context.Context, *TurnEvent)
	OnNavigate func(context.Context, *NavigateEvent)
	OnGenerate func(context.Context, *GenerateEvent)
}
