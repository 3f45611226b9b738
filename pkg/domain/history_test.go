package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_RoundTrip(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			h := History{}
			for i := 0; i < n; i++ {
				h = append(h, HistoryEntry{Intent: fmt.Sprintf("Intent%d", i%2), Slot: fmt.Sprintf("Slot%d", i)})
			}
			got, err := DecodeHistory(h.Encode())
			require.NoError(t, err)
			assert.Equal(t, h, got)
		})
	}
}

func TestHistory_Encode(t *testing.T) {
	h := History{{RootIntent, RootSlot}, {"AnalyzingIntent", "InstituteTypeSlot"}}
	assert.Equal(t, "BQAIntent:BQASlot|AnalyzingIntent:InstituteTypeSlot", h.Encode())
	assert.Equal(t, "", History{}.Encode())
}

func TestHistory_PushIsIdempotentOnTop(t *testing.T) {
	var h History
	assert.True(t, h.Push(RootIntent, RootSlot))
	assert.False(t, h.Push(RootIntent, RootSlot))
	assert.Equal(t, 1, h.Len())

	assert.True(t, h.Push("AnalyzingIntent", "InstituteTypeSlot"))
	assert.True(t, h.Push(RootIntent, RootSlot), "only the top entry is compared")
	assert.Equal(t, 3, h.Len())
}

func TestHistory_Pop(t *testing.T) {
	h := History{{RootIntent, RootSlot}, {"AnalyzingIntent", "InstituteTypeSlot"}}

	top, err := h.Pop()
	require.NoError(t, err)
	assert.Equal(t, HistoryEntry{"AnalyzingIntent", "InstituteTypeSlot"}, top)

	_, err = h.Pop()
	require.NoError(t, err)

	_, err = h.Pop()
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestDecodeHistory_Malformed(t *testing.T) {
	for _, raw := range []string{"BQAIntent", "BQAIntent:", ":BQASlot", "A:B|", "A:B:C", "A:B||C:D"} {
		t.Run(raw, func(t *testing.T) {
			_, err := DecodeHistory(raw)
			assert.ErrorIs(t, err, ErrMalformedHistory)
		})
	}
}
