package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/bahrain-bp/bqa-insight-ai/internal/presentation/graph"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

func prompt(ctx context.Context, v domain.Values) (string, error) { return "", nil }

func testTrees() map[string]*domain.Step {
	return map[string]*domain.Step{
		"Menu": {
			Name:        "Menu",
			OptionsSlot: "MenuSlot",
			Children: []*domain.Step{
				{Name: "Ask", Handoff: &domain.Handoff{Intent: "Other", Slot: "QuestionSlot"}},
				{Name: `Rate "it"`, Required: []string{"ASlot"}, Prompt: prompt},
			},
		},
		"Other": {Name: "Other", Required: []string{"QuestionSlot"}, Prompt: prompt},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Intent Root Shape",
			contains: []string{
				`Menu(("Menu"))`,
				`Other(("Other"))`,
				"Menu --> Menu_root",
			},
		},
		{
			name: "Branch Shape",
			contains: []string{
				`Menu_root[/"MenuSlot"/]`,
				`Menu_root -- "Ask" --> Menu_Ask`,
			},
		},
		{
			name: "Handoff Jump",
			contains: []string{
				`Menu_Ask["Ask"]`,
				"Menu_Ask -.-> Other",
			},
		},
		{
			name: "Prompt Leaf And Escaping",
			contains: []string{
				`Menu_root -- "Rate 'it'" --> Menu_Rate_it`,
				`Menu_Rate_it[["Rate 'it' <br/> ASlot"]]`,
				`Other_root[["Other <br/> QuestionSlot"]]`,
			},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				Visited: []domain.HistoryEntry{{Intent: "Menu", Slot: "MenuSlot"}, {Intent: "Menu", Slot: "MenuSlot"}},
				Current: &domain.HistoryEntry{Intent: "Menu", Slot: "ASlot"},
			},
			contains: []string{
				"class Menu_root visited;",
				"class Menu_Rate_it current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(testTrees(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class Menu_root visited;") != 1 {
				t.Errorf("visited steps must be styled once:\n%v", got)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	got := graph.RenderText(testTrees())

	for _, want := range []string{
		"Menu\n  asks MenuSlot\n",
		"    Ask ; -> Other/QuestionSlot\n",
		`    Rate "it" ; needs ASlot ; -> prompt`,
		"Other\n  needs QuestionSlot ; -> prompt\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderText() = \n%v\nWant substring: %v", got, want)
		}
	}
	if strings.Index(got, "Menu") > strings.Index(got, "Other") {
		t.Errorf("intents must be sorted:\n%v", got)
	}
}
