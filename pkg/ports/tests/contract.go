package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// GeneratorContractTest is a reusable test suite that verifies if an adapter complies with ports.Generator.
// The adapter must answer prompt with text containing want.
func GeneratorContractTest(t *testing.T, gen ports.Generator, prompt, want string) {
	t.Helper()

	t.Run("Generate_Success", func(t *testing.T) {
		out, err := gen.Generate(context.Background(), ports.GenerateRequest{SessionID: "contract-session", Prompt: prompt})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	})

	t.Run("Generate_Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := gen.Generate(ctx, ports.GenerateRequest{SessionID: "contract-session", Prompt: prompt})
		if err == nil {
			t.Fatal("expected an error for a canceled context, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
