package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Chat commands handled by the loop itself.
const (
	CommandQuit = "quit"
	CommandExit = "exit"
)

// Runner drives an interactive chat against a Simulator.
type Runner struct {
	Simulator *Simulator
	Handler   *TextHandler
	Logger    *slog.Logger

	// SessionID resumes an existing conversation when set.
	SessionID string
}

// NewRunner creates a Runner. A text handler on Stdin/Stdout is used unless one is given.
func NewRunner(sim *Simulator, opts ...Option) *Runner {
	r := &Runner{
		Simulator: sim,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run loops until EOF, "quit", or cancellation of ctx (including Ctrl+C).
// It returns the id of the session it used.
func (r *Runner) Run(ctx context.Context) (string, error) {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	reply, err := r.open(ctx)
	if err != nil {
		return "", err
	}
	id := reply.SessionID
	if err := r.Handler.SystemOutput(ctx, "session "+id+" (type 'back', 'menu' or 'quit')"); err != nil {
		return id, err
	}

	for {
		if err := r.Handler.Output(ctx, reply); err != nil {
			return id, fmt.Errorf("output error: %w", err)
		}

		text, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return id, nil
			}
			return id, fmt.Errorf("input error: %w", err)
		}
		switch strings.ToLower(text) {
		case "":
			reply = &Reply{SessionID: id}
			continue
		case CommandQuit, CommandExit:
			return id, nil
		}

		next, err := r.Simulator.Send(ctx, id, text)
		if err != nil {
			if IsInputError(err) {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				reply = &Reply{SessionID: id}
				continue
			}
			return id, err
		}
		reply = next
	}
}

func (r *Runner) open(ctx context.Context) (*Reply, error) {
	if r.SessionID == "" {
		return r.Simulator.Start(ctx)
	}
	_, reply, err := r.Simulator.Current(ctx, r.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", r.SessionID, err)
	}
	r.Logger.Debug("session resumed", "session_id", r.SessionID)
	return reply, nil
}
