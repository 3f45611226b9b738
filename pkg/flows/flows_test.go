package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
)

func trees(t *testing.T) map[string]*domain.Step {
	t.Helper()
	tr, err := Trees(prompts.Default())
	require.NoError(t, err)
	return tr
}

func TestTrees_Intents(t *testing.T) {
	tr := trees(t)
	for _, intent := range []string{IntentMenu, IntentAnalyze, IntentCompare, IntentStandard, IntentFollowUp} {
		assert.Contains(t, tr, intent)
	}
	assert.Equal(t, []string{OptionAnalyze, OptionCompare, OptionOther}, tr[IntentMenu].Options())
	assert.Equal(t, []string{OptionSchool, OptionVocational, OptionUniversity}, tr[IntentAnalyze].Options())
	assert.Equal(t,
		[]string{OptionGovernorate, OptionSpecific, OptionAllGovernment, OptionAllPrivate},
		tr[IntentCompare].SlotOptions(SlotCompareSchool))
}

func TestTrees_NilLibrary(t *testing.T) {
	_, err := Trees(nil)
	assert.Error(t, err)
}

// Every leaf prompt must carry every slot value gathered on its path.
func TestTrees_PromptsEmbedCollectedValues(t *testing.T) {
	for intent, root := range trees(t) {
		root.Walk(func(path []*domain.Step) {
			leaf := path[len(path)-1]
			if leaf.Prompt == nil {
				return
			}
			values := domain.Values{}
			var required []string
			for i, step := range path {
				for _, slot := range step.Required {
					values[slot] = "value of " + slot
					required = append(required, slot)
				}
				if step.OptionsSlot != "" {
					values[step.OptionsSlot] = path[i+1].Name
				}
			}

			out, err := leaf.Prompt(context.Background(), values)
			require.NoError(t, err, "%s/%s", intent, leaf.Name)
			for _, slot := range required {
				assert.Contains(t, out, values[slot], "%s/%s misses %s", intent, leaf.Name, slot)
			}
		})
	}
}

func TestTrees_InstitutionalReviewHandsOff(t *testing.T) {
	tr := trees(t)
	uni, ok := tr[IntentAnalyze].Child(OptionUniversity)
	require.True(t, ok)
	review, ok := uni.Child(OptionInstitutionalReview)
	require.True(t, ok)
	assert.Equal(t, []string{SlotUniversityName}, review.Required)
	assert.Equal(t, &domain.Handoff{Intent: IntentStandard, Slot: SlotStandard}, review.Handoff)

	out, err := tr[IntentStandard].Prompt(context.Background(), domain.Values{
		SlotUniversityName: "University of Bahrain",
		SlotStandard:       "Standard 2",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "University of Bahrain")
	assert.Contains(t, out, "Standard 2")
}

func TestCompareSchoolsData(t *testing.T) {
	d := CompareSchoolsData(domain.Values{
		SlotCompareSchoolAspect: "enrollment",
		SlotCompareSchool:       OptionAllGovernment,
	})
	assert.True(t, d.AllGovernment)
	assert.False(t, d.AllPrivate)
	assert.Equal(t, OptionAllGovernment, d.Scope)
	assert.Empty(t, d.Subject)

	d = CompareSchoolsData(domain.Values{SlotCompareSchool: OptionGovernorate, SlotGovernorate: "Muharraq"})
	assert.Equal(t, "Muharraq", d.Governorate)
}

func TestSlotPrompt(t *testing.T) {
	for intent, root := range trees(t) {
		root.Walk(func(path []*domain.Step) {
			step := path[len(path)-1]
			slots := append([]string(nil), step.Required...)
			if step.OptionsSlot != "" {
				slots = append(slots, step.OptionsSlot)
			}
			if step.Handoff != nil {
				slots = append(slots, step.Handoff.Slot)
			}
			for _, slot := range slots {
				_, ok := SlotPrompt(slot)
				assert.True(t, ok, "%s: no prompt for %s", intent, slot)
			}
		})
	}
}
