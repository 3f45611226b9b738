package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/openai"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports/tests"
)

type request struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	User     string `json:"user"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// sseServer streams the given deltas as chat completion chunks.
func sseServer(t *testing.T, got *request, deltas ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if got != nil {
			_ = json.Unmarshal(body, got)
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		for i, d := range deltas {
			chunk := map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   "gpt-4o",
				"choices": []map[string]any{{"index": 0, "delta": map[string]any{"content": d}, "finish_reason": nil}},
			}
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if i == len(deltas)-1 {
				fmt.Fprint(w, "data: [DONE]\n\n")
			}
		}
	}))
}

func newClient(t *testing.T, url string) *openai.Client {
	t.Helper()
	c, err := openai.New("test-key",
		openai.WithBaseURL(url),
		openai.WithModel("gpt-4o-mini"),
		openai.WithRequestOptions(option.WithMaxRetries(0)),
	)
	require.NoError(t, err)
	return c
}

func TestClient_Streams(t *testing.T) {
	var got request
	srv := sseServer(t, &got, "Three ", "schools ", "improved.")
	defer srv.Close()

	out, err := newClient(t, srv.URL).Generate(context.Background(), ports.GenerateRequest{SessionID: "s-1", Prompt: "Which schools improved?"})
	require.NoError(t, err)
	assert.Equal(t, "Three schools improved.", out)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.True(t, got.Stream)
	assert.Equal(t, "s-1", got.User)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Which schools improved?", got.Messages[0].Content)
}

func TestClient_Contract(t *testing.T) {
	srv := sseServer(t, nil, "pong")
	defer srv.Close()
	tests.GeneratorContractTest(t, newClient(t, srv.URL), "ping", "pong")
}

func TestClient_Throttled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Generate(context.Background(), ports.GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, domain.ErrThrottled)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Generate(context.Background(), ports.GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrThrottled)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := openai.New("")
	assert.Error(t, err)
}
