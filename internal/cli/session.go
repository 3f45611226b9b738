package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bahrain-bp/bqa-insight-ai/internal/presentation/graph"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/session"
)

// ListSessions prints the ids of the stored conversations.
func ListSessions(ctx context.Context, w io.Writer, m *session.Manager) error {
	ids, err := m.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Active Sessions:")
	for _, id := range ids {
		fmt.Fprintln(w, "- "+id)
	}
	return nil
}

// InspectSession prints a stored conversation as JSON, or as a Mermaid diagram
// of the step trees with the session's path highlighted.
func InspectSession(ctx context.Context, w io.Writer, app *App, id string, mermaid bool) error {
	conv, err := app.Manager.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", id, err)
	}

	if mermaid {
		fmt.Fprint(w, graph.GenerateMermaid(app.Bot.Trees(), Overlay(conv)))
		return nil
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// Overlay maps the conversation history onto the step trees.
func Overlay(conv *domain.Conversation) *graph.GraphOverlay {
	overlay := &graph.GraphOverlay{}
	history, err := domain.DecodeHistory(conv.State.SessionAttributes[domain.AttrHistory])
	if err == nil {
		overlay.Visited = history
	}
	if da := conv.State.DialogAction; da != nil && da.SlotToElicit != "" {
		overlay.Current = &domain.HistoryEntry{Intent: conv.State.Intent.Name, Slot: da.SlotToElicit}
	}
	return overlay
}

// RemoveSessions deletes every id, reporting each one. The error joins all failures.
func RemoveSessions(ctx context.Context, w io.Writer, m *session.Manager, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := m.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", id)
	}
	return errors.Join(errs...)
}
