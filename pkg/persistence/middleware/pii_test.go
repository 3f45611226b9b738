package middleware_test

import (
	"context"
	"testing"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	conv := newConversation(sessionID, "mail me at parent@example.com or call +973 1234 5678, CPR 880112345")
	conv.Transcript = append(conv.Transcript, domain.Utterance{From: "bot", Text: "Contact info@bqa.gov.bh"})
	conv.State.Intent.Slots["OtherQuestionsSlot"] = domain.NewSlot("parent@example.com")

	if err := secureStore.Save(ctx, sessionID, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if conv.Transcript[0].Text != "mail me at parent@example.com or call +973 1234 5678, CPR 880112345" {
		t.Error("Middleware modified the caller's conversation!")
	}

	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	if got, want := stored.Transcript[0].Text, "mail me at *** or call ***, CPR ***"; got != want {
		t.Errorf("User line should be masked, got %q want %q", got, want)
	}
	if stored.Transcript[1].Text != "Contact info@bqa.gov.bh" {
		t.Errorf("Bot lines should be kept, got %q", stored.Transcript[1].Text)
	}
	if v, _ := stored.State.Intent.SlotValue("OtherQuestionsSlot"); v != "parent@example.com" {
		t.Errorf("Dialog state should be kept, got %q", v)
	}
}

func TestChain(t *testing.T) {
	underlyingStore := memory.NewStore()
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	if err := store.Save(ctx, "chained", newConversation("chained", "write to a@b.io")); err != nil {
		t.Fatal(err)
	}

	stored, err := underlyingStore.Load(ctx, "chained")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Transcript) != 0 {
		t.Error("Expected the outer store to be encrypted")
	}

	loaded, err := store.Load(ctx, "chained")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Transcript[0].Text != "write to ***" {
		t.Errorf("Expected masked text after decryption, got %q", loaded.Transcript[0].Text)
	}
}
