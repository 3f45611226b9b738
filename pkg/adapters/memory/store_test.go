package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	conv := domain.NewConversation("s-1", time.Now())
	require.NoError(t, store.Save(ctx, "s-1", conv))

	conv.State.SessionAttributes["history"] = "mutated"
	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "BQAIntent:BQASlot", loaded.State.SessionAttributes["history"])

	loaded.State.Intent.Slots["BQASlot"] = domain.NewSlot("Analyze")
	again, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.NotContains(t, again.State.Intent.Slots, "BQASlot")
}
