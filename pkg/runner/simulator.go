package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/session"
)

// Commands recognised in place of a slot answer.
const (
	CommandBack = "back"
	CommandMenu = "menu"
)

// InvocationSource is stamped on every simulated event.
const InvocationSource = "DialogCodeHook"

// Bot is what the simulator needs from the fulfillment core.
type Bot interface {
	ports.Fulfiller
	Options(intent, slot string) []string
	ResolveOption(intent, slot, text string) (string, bool)
	SlotPrompt(slot string) string
}

// Reply is what a user sees after one turn.
type Reply struct {
	SessionID string   `json:"session_id"`
	Messages  []string `json:"messages"`
	Intent    string   `json:"intent"`
	Slot      string   `json:"slot,omitempty"`
	Options   []string `json:"options,omitempty"`
	Closed    bool     `json:"closed"`
	ChartData string   `json:"chart_data,omitempty"`
}

// Simulator plays the conversational platform for local use: it keeps the
// session state, turns user text into slot values and calls the bot.
type Simulator struct {
	bot     Bot
	manager *session.Manager
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
}

// SimulatorOption configures the Simulator.
type SimulatorOption func(*Simulator)

// WithSimulatorLogger sets the structured logger.
func WithSimulatorLogger(logger *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides the uuid session ids.
func WithIDGenerator(fn func() string) SimulatorOption {
	return func(s *Simulator) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithSimulatorClock overrides the transcript time source.
func WithSimulatorClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSimulator wires a bot to a session manager.
func NewSimulator(bot Bot, manager *session.Manager, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		bot:     bot,
		manager: manager,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager exposes the underlying session manager.
func (s *Simulator) Manager() *session.Manager {
	return s.manager
}

// Start opens a new conversation at the root menu.
func (s *Simulator) Start(ctx context.Context) (*Reply, error) {
	id := s.newID()
	conv, err := s.manager.LoadOrStart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	reply := s.reply(conv, nil)
	conv, err = s.manager.Update(ctx, id, func(ctx context.Context, c *domain.Conversation) error {
		s.record(c, "bot", reply.Messages...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.logger.InfoContext(ctx, "session started", "session_id", conv.ID)
	return reply, nil
}

// Send delivers one user message and returns the bot's reply.
// "back" asks the bot to retry the previous question and "menu" returns to the
// root menu. Any other text answers the slot being elicited.
func (s *Simulator) Send(ctx context.Context, sessionID, text string) (*Reply, error) {
	text, err := SanitizeInput(text)
	if err != nil {
		return nil, err
	}

	var resp *domain.Response
	conv, err := s.manager.Update(ctx, sessionID, func(ctx context.Context, c *domain.Conversation) error {
		ev := s.event(c, text)
		var err error
		resp, err = s.bot.Fulfill(ctx, ev)
		if err != nil {
			return err
		}
		s.record(c, "user", text)
		c.State = resp.SessionState
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	reply := s.reply(conv, resp)
	if len(reply.Messages) > 0 {
		// The transcript append is best effort; the turn itself is already saved.
		if _, err := s.manager.Update(ctx, sessionID, func(ctx context.Context, c *domain.Conversation) error {
			s.record(c, "bot", reply.Messages...)
			return nil
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to record bot reply", "session_id", sessionID, "err", err)
		}
	}
	s.logger.DebugContext(ctx, "turn simulated", "session_id", sessionID, "intent", reply.Intent, "slot", reply.Slot, "closed", reply.Closed)
	return reply, nil
}

// Current returns the conversation and the reply its state represents, without a turn.
func (s *Simulator) Current(ctx context.Context, sessionID string) (*domain.Conversation, *Reply, error) {
	conv, err := s.manager.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return conv, s.reply(conv, nil), nil
}

// event builds the platform event for text in the conversation's current state.
func (s *Simulator) event(c *domain.Conversation, text string) *domain.Event {
	if c.State.DialogAction == nil || c.State.DialogAction.Type == domain.DialogClose {
		// A closed dialog starts over at the root menu, the way the platform
		// would on the next utterance.
		c.State = domain.NewConversation(c.ID, c.CreatedAt).State
	}

	state := c.State
	state.Intent.Slots = make(map[string]*domain.Slot, len(c.State.Intent.Slots)+1)
	for k, v := range c.State.Intent.Slots {
		state.Intent.Slots[k] = v
	}
	state.SessionAttributes = make(map[string]string, len(c.State.SessionAttributes)+1)
	for k, v := range c.State.SessionAttributes {
		state.SessionAttributes[k] = v
	}
	delete(state.SessionAttributes, domain.AttrRetry)
	delete(state.SessionAttributes, domain.AttrReturnToMenu)

	switch strings.ToLower(text) {
	case CommandBack:
		state.SessionAttributes[domain.AttrRetry] = "true"
	case CommandMenu:
		state.SessionAttributes[domain.AttrReturnToMenu] = "true"
	default:
		slot := state.DialogAction.SlotToElicit
		if canonical, ok := s.bot.ResolveOption(state.Intent.Name, slot, text); ok {
			state.Intent.Slots[slot] = domain.NewSlot(text, canonical)
		} else {
			state.Intent.Slots[slot] = domain.NewSlot(text)
		}
	}

	return &domain.Event{
		SessionID:        c.ID,
		InputTranscript:  text,
		InvocationSource: InvocationSource,
		SessionState:     state,
	}
}

// reply renders the conversation state. When the bot sent no message for an
// elicitation the slot's own prompt is shown, as the platform would.
func (s *Simulator) reply(c *domain.Conversation, resp *domain.Response) *Reply {
	r := &Reply{
		SessionID: c.ID,
		Messages:  []string{},
		Intent:    c.State.Intent.Name,
		ChartData: c.State.SessionAttributes[domain.AttrChartData],
	}
	if resp != nil {
		for _, m := range resp.Messages {
			r.Messages = append(r.Messages, m.Content)
		}
	}

	da := c.State.DialogAction
	switch {
	case da == nil || da.Type == domain.DialogClose:
		r.Closed = true
	default:
		r.Slot = da.SlotToElicit
		r.Options = s.bot.Options(r.Intent, r.Slot)
		if resp == nil || len(r.Messages) == 0 {
			r.Messages = append(r.Messages, s.bot.SlotPrompt(r.Slot))
		}
	}
	return r
}

func (s *Simulator) record(c *domain.Conversation, from string, lines ...string) {
	at := s.now().UTC()
	for _, line := range lines {
		c.Transcript = append(c.Transcript, domain.Utterance{From: from, Text: line, At: at})
	}
}

// IsInputError reports whether err was caused by the user's text rather than the bot.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8)
}
