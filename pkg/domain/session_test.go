package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(intent string, slots map[string]*Slot, attrs map[string]string) *Event {
	return &Event{
		SessionID: "s-1",
		SessionState: SessionState{
			Intent:            Intent{Name: intent, Slots: slots},
			SessionAttributes: attrs,
		},
	}
}

func TestSlot_Resolve(t *testing.T) {
	tests := []struct {
		name string
		slot *Slot
		want string
		ok   bool
	}{
		{"nil slot", nil, "", false},
		{"no value", &Slot{}, "", false},
		{"resolved wins", NewSlot("school", "School"), "School", true},
		{"raw fallback", NewSlot("Al Bayan School"), "Al Bayan School", true},
		{"empty raw", NewSlot(""), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.slot.Resolve()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(&Event{})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewSession(&Event{SessionID: "s-1"})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewSession(nil)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNewSession_DecodesAttributes(t *testing.T) {
	s, err := NewSession(event("AnalyzingIntent", map[string]*Slot{
		"InstituteTypeSlot": NewSlot("school", "School"),
		"SchoolAspectSlot":  nil,
	}, map[string]string{
		AttrHistory:      "BQAIntent:BQASlot|AnalyzingIntent:InstituteTypeSlot",
		AttrStash:        `{"BQAIntent":{"BQASlot":"Analyze"}}`,
		AttrRetry:        "True",
		AttrReturnToMenu: "no",
		"userName":       "Sara",
	}))
	require.NoError(t, err)
	assert.Empty(t, s.Warnings)
	assert.True(t, s.Retry)
	assert.False(t, s.ReturnToMenu)
	assert.Equal(t, 2, s.History.Len())

	v, ok := s.Slot("InstituteTypeSlot")
	assert.True(t, ok)
	assert.Equal(t, "School", v)
	_, ok = s.Slot("SchoolAspectSlot")
	assert.False(t, ok)

	assert.Equal(t, Values{"BQASlot": "Analyze", "InstituteTypeSlot": "School"}, s.Values())

	out := s.EncodeAttributes()
	assert.Equal(t, "Sara", out["userName"], "unknown attributes are preserved")
	assert.NotContains(t, out, AttrRetry)
	assert.NotContains(t, out, AttrReturnToMenu)
	assert.Equal(t, "BQAIntent:BQASlot|AnalyzingIntent:InstituteTypeSlot", out[AttrHistory])
	assert.JSONEq(t, `{"BQAIntent":{"BQASlot":"Analyze"}}`, out[AttrStash])
}

func TestNewSession_CorruptStateIsAWarning(t *testing.T) {
	s, err := NewSession(event(RootIntent, nil, map[string]string{
		AttrHistory: "garbage",
		AttrStash:   "{not json",
	}))
	require.NoError(t, err)
	assert.Len(t, s.Warnings, 2)
	assert.ErrorIs(t, s.Warnings[0], ErrMalformedHistory)
	assert.Equal(t, 0, s.History.Len())
	assert.Empty(t, s.Stash)
}

func TestSession_SwitchIntentStashes(t *testing.T) {
	s, err := NewSession(event("AnalyzingIntent", map[string]*Slot{
		"AnalyzeUniversityNameSlot": NewSlot("University of Bahrain"),
	}, nil))
	require.NoError(t, err)

	s.SwitchIntent("StandardIntent", nil)
	assert.Equal(t, "StandardIntent", s.Intent.Name)
	assert.Equal(t, ConfirmationNone, s.Intent.ConfirmationState)
	assert.Empty(t, s.Intent.Values())
	assert.Equal(t, "University of Bahrain", s.Values()["AnalyzeUniversityNameSlot"])

	s.SetSlot("StandardSlot", "Standard 1")
	s.ClearSlot("StandardSlot")
	_, ok := s.Slot("StandardSlot")
	assert.False(t, ok)
	assert.Contains(t, s.Intent.Slots, "StandardSlot", "cleared slots stay present as null")
}

func TestSession_SwitchToSameIntentDoesNotStash(t *testing.T) {
	s, err := NewSession(event(RootIntent, map[string]*Slot{RootSlot: NewSlot("Other")}, nil))
	require.NoError(t, err)

	s.SwitchIntent(RootIntent, Values{})
	assert.Empty(t, s.Stash)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "on", "t", "y"} {
		assert.True(t, IsTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		assert.False(t, IsTruthy(v), v)
	}
}
