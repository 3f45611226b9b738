package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

const (
	purposeAnswer = "answer"
	purposeChart  = "chart"
)

// generate calls the generator under the engine timeout. It never fails the turn:
// throttling and other failures become canned messages, and ok reports whether
// the text came from the model.
func (e *Engine) generate(ctx context.Context, s *domain.Session, purpose, prompt string) (text string, ok bool) {
	if e.generator == nil {
		e.logger.ErrorContext(ctx, "no generator configured", "session_id", s.ID)
		e.emitGenerate(ctx, s, purpose, domain.OutcomeError, 0, errors.New("no generator configured"))
		return domain.MessageApology, false
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := e.now()
	text, err := e.generator.Generate(ctx, ports.GenerateRequest{SessionID: s.ID, Prompt: prompt})
	elapsed := e.now().Sub(start)

	switch {
	case errors.Is(err, domain.ErrThrottled):
		e.logger.WarnContext(ctx, "generator throttled", "session_id", s.ID, "purpose", purpose)
		e.emitGenerate(ctx, s, purpose, domain.OutcomeThrottled, elapsed, err)
		return domain.MessageThrottled, false
	case err != nil:
		e.logger.ErrorContext(ctx, "generator failed", "session_id", s.ID, "purpose", purpose, "err", err)
		e.emitGenerate(ctx, s, purpose, domain.OutcomeError, elapsed, err)
		return domain.MessageApology, false
	case strings.TrimSpace(text) == "":
		e.logger.WarnContext(ctx, "generator returned no text", "session_id", s.ID, "purpose", purpose)
		e.emitGenerate(ctx, s, purpose, domain.OutcomeEmpty, elapsed, nil)
		return domain.MessageApology, false
	}

	e.emitGenerate(ctx, s, purpose, domain.OutcomeOK, elapsed, nil)
	return text, true
}

// chartData asks the generator for chart JSON describing analysis.
// It returns "" when no valid JSON object comes back.
func (e *Engine) chartData(ctx context.Context, s *domain.Session, analysis string) string {
	prompt, err := e.chartPrompt(analysis)
	if err != nil {
		e.logger.ErrorContext(ctx, "chart prompt failed", "session_id", s.ID, "err", err)
		return ""
	}
	out, ok := e.generate(ctx, s, purposeChart, prompt)
	if !ok {
		return ""
	}
	data := extractJSON(out)
	if data == "" {
		e.logger.WarnContext(ctx, "chart answer is not JSON", "session_id", s.ID)
	}
	return data
}

// extractJSON returns the outermost {...} span of s, compacted, if it is valid JSON.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s[start:end+1])); err != nil {
		return ""
	}
	return buf.String()
}
