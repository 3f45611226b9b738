package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	insight "github.com/bahrain-bp/bqa-insight-ai"
	"github.com/bahrain-bp/bqa-insight-ai/internal/presentation/tui"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/runner"
)

// ChatOptions contains the configuration of the chat command.
type ChatOptions struct {
	SessionID string
	// Fresh deletes SessionID before starting, so the chat begins at the menu.
	Fresh bool
	// Plain disables markdown rendering and the banner.
	Plain bool
	Quiet bool

	In  io.Reader
	Out io.Writer
}

// RunChat drives an interactive conversation on the terminal.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.Fresh && opts.SessionID != "" {
		if err := app.Manager.Delete(ctx, opts.SessionID); err != nil {
			app.Logger.Debug("nothing to reset", "session_id", opts.SessionID, "err", err)
		}
		opts.SessionID = ""
	}

	var handlerOpts []runner.TextHandlerOption
	if !opts.Plain {
		render, err := tui.NewRenderer(tui.Width())
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(render))
		if !opts.Quiet && opts.Out != nil {
			tui.PrintBanner(opts.Out, strings.TrimSpace(insight.Version))
		}
	}

	r := runner.NewRunner(app.Simulator,
		runner.WithLogger(app.Logger),
		runner.WithSessionID(opts.SessionID),
		runner.WithInputHandler(runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)),
	)
	id, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if !opts.Quiet && opts.Out != nil {
		fmt.Fprintf(opts.Out, "\nBye! Resume with: bqa chat --session %s\n", id)
	}
	return nil
}
