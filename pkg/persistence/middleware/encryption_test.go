package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/persistence/middleware"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func newConversation(id, said string) *domain.Conversation {
	conv := domain.NewConversation(id, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	conv.Transcript = append(conv.Transcript, domain.Utterance{From: "user", Text: said, At: conv.CreatedAt})
	return conv
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	original := newConversation(sessionID, "How did Al Noor School perform?")

	if err := secureStore.Save(ctx, sessionID, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The underlying store only sees the envelope
	stored, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Transcript) != 0 {
		t.Fatalf("Expected transcript to be hidden, found: %v", stored.Transcript)
	}
	if _, ok := stored.State.SessionAttributes[middleware.EnvelopeAttribute]; !ok {
		t.Fatal("Expected envelope attribute in session attributes")
	}
	if _, ok := stored.State.SessionAttributes[domain.AttrHistory]; ok {
		t.Fatal("Expected history to be sealed")
	}
	if stored.ID != sessionID || !stored.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("Expected id and timestamps in clear, got %q %v", stored.ID, stored.CreatedAt)
	}

	loaded, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loaded.Transcript[0].Text != "How did Al Noor School perform?" {
		t.Errorf("Expected original text, got %v", loaded.Transcript[0].Text)
	}
	if loaded.State.DialogAction.SlotToElicit != domain.RootSlot {
		t.Errorf("Expected dialog state to survive, got %+v", loaded.State.DialogAction)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"
	if err := secureStoreOld.Save(ctx, sessionID, newConversation(sessionID, "encrypted-with-old-key")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.Transcript[0].Text != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	// Saving again re-seals with the new key
	loaded.Transcript[0].Text = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, sessionID, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainConversationRejected(t *testing.T) {
	underlyingStore := memory.NewStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", newConversation("plain", "hi")); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "plain"); err == nil || !strings.Contains(err.Error(), "envelope") {
		t.Errorf("Expected envelope error, got %v", err)
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if string(got) != string(key) {
		t.Error("ParseKey returned a different key")
	}

	if _, err := middleware.ParseKey("not base64!"); err == nil {
		t.Error("Expected error for invalid base64")
	}
	if _, err := middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil {
		t.Error("Expected error for short key")
	}
}

func TestEncryptionMiddleware_EnvelopeBoundToSession(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	ctx := context.Background()
	if err := secureStore.Save(ctx, "alice", newConversation("alice", "my question")); err != nil {
		t.Fatal(err)
	}

	// Copy alice's envelope under another id
	envelope, err := underlyingStore.Load(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if err := underlyingStore.Save(ctx, "mallory", envelope); err != nil {
		t.Fatal(err)
	}

	if _, err := secureStore.Load(ctx, "mallory"); err == nil {
		t.Error("Expected a copied envelope to fail under another session id")
	}
}
