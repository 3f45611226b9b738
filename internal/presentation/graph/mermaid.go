package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// GraphOverlay contains session state to visualize on the trees.
type GraphOverlay struct {
	// Visited are the elicitations recorded in the session history.
	Visited []domain.HistoryEntry
	// Current is the slot being elicited.
	Current *domain.HistoryEntry
}

// GenerateMermaid produces a Mermaid flowchart of the step trees, one root per intent.
// It applies semantic styling:
// - Intent root: ((Circle))
// - Branch on an options slot: [/Parallelogram/]
// - Prompt leaf: [[Subroutine]]
// - Handoff leaf: [Rectangle] with a dotted jump to the target intent
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(trees map[string]*domain.Step, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// Slot elicitations map onto the step that asks for them, so the overlay can find them.
	asks := make(map[string]string)

	for _, intent := range sortedIntents(trees) {
		root := trees[intent]
		rootID := sanitizeMermaidID(intent)
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", rootID, intent))

		root.Walk(func(path []*domain.Step) {
			step := path[len(path)-1]
			id := stepID(intent, path)
			if len(path) > 1 {
				parent := stepID(intent, path[:len(path)-1])
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", parent, escape(step.Name), id))
			} else {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", rootID, id))
			}

			switch {
			case !step.IsLeaf():
				sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, step.OptionsSlot))
				asks[intent+":"+step.OptionsSlot] = id
			case step.Handoff != nil:
				sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, leafLabel(step)))
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", id, sanitizeMermaidID(step.Handoff.Intent)))
			default:
				sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, leafLabel(step)))
			}
			for _, slot := range step.Required {
				asks[intent+":"+slot] = id
			}
		})
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, e := range overlay.Visited {
			id, ok := asks[e.String()]
			if !ok || visitedSet[id] {
				continue
			}
			visitedSet[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}

		if overlay.Current != nil {
			if id, ok := asks[overlay.Current.String()]; ok {
				sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
			}
		}
	}

	return sb.String()
}

// RenderText prints the step trees as an indented outline.
func RenderText(trees map[string]*domain.Step) string {
	var sb strings.Builder
	for _, intent := range sortedIntents(trees) {
		sb.WriteString(intent + "\n")
		trees[intent].Walk(func(path []*domain.Step) {
			step := path[len(path)-1]
			indent := strings.Repeat("  ", len(path))
			name := step.Name
			if len(path) == 1 {
				name = ""
			}
			var parts []string
			if name != "" {
				parts = append(parts, name)
			}
			if len(step.Required) > 0 {
				parts = append(parts, "needs "+strings.Join(step.Required, ", "))
			}
			switch {
			case !step.IsLeaf():
				parts = append(parts, "asks "+step.OptionsSlot)
			case step.Handoff != nil:
				parts = append(parts, "-> "+step.Handoff.Intent+"/"+step.Handoff.Slot)
			default:
				parts = append(parts, "-> prompt")
			}
			sb.WriteString(indent + strings.Join(parts, " ; ") + "\n")
		})
	}
	return sb.String()
}

func leafLabel(step *domain.Step) string {
	label := escape(step.Name)
	if len(step.Required) > 0 {
		label += " <br/> " + strings.Join(step.Required, ", ")
	}
	return label
}

func stepID(intent string, path []*domain.Step) string {
	names := []string{intent}
	for _, s := range path[1:] {
		names = append(names, s.Name)
	}
	if len(path) == 1 {
		names = append(names, "root")
	}
	return sanitizeMermaidID(strings.Join(names, "/"))
}

func sortedIntents(trees map[string]*domain.Step) []string {
	names := make([]string, 0, len(trees))
	for name := range trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}
