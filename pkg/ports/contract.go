package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		conv := domain.NewConversation(sessionID, time.Now().UTC())
		conv.State.Intent.Slots["InstituteTypeSlot"] = domain.NewSlot("school", "School")
		conv.State.Intent.Slots["SchoolAspectSlot"] = nil
		conv.Transcript = append(conv.Transcript, domain.Utterance{From: "user", Text: "Analyze"})

		err := store.Save(ctx, sessionID, conv)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conv.ID, loaded.ID)
		assert.Equal(t, domain.RootIntent, loaded.State.Intent.Name)
		assert.Equal(t, conv.State.SessionAttributes, loaded.State.SessionAttributes)

		v, ok := loaded.State.Intent.SlotValue("InstituteTypeSlot")
		assert.True(t, ok)
		assert.Equal(t, "School", v)
		assert.Contains(t, loaded.State.Intent.Slots, "SchoolAspectSlot", "unset slots survive as null")
		require.Len(t, loaded.Transcript, 1)
		assert.Equal(t, "Analyze", loaded.Transcript[0].Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewConversation(sessionID, time.Now().UTC()))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversation(id1, time.Now().UTC()))
		_ = store.Save(ctx, id2, domain.NewConversation(id2, time.Now().UTC()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
