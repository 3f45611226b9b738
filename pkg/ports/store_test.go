package ports_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// MockStore is an in-memory implementation of StateStore for testing purposes.
type MockStore struct {
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	// Serialize to simulate a real backend
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	m.data[sessionID] = b
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	b, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var conv domain.Conversation
	if err := json.Unmarshal(b, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestStateStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewMockStore())
}

func TestGeneratorFunc(t *testing.T) {
	var got ports.GenerateRequest
	g := ports.GeneratorFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		got = req
		return "ok", nil
	})

	out, err := g.Generate(context.Background(), ports.GenerateRequest{SessionID: "s", Prompt: "p"})
	if err != nil || out != "ok" {
		t.Fatalf("Generate() = %q, %v", out, err)
	}
	if got.SessionID != "s" || got.Prompt != "p" {
		t.Errorf("unexpected request %+v", got)
	}
}
