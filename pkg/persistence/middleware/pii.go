package middleware

import (
	"context"
	"regexp"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// Mask replaces every match in stored user utterances.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses, phone numbers and 9-digit personal numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d -]{7,}\d`,
	`\b\d{9}\b`,
}

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of the patterns in
// the user lines of the transcript. The dialog state is stored untouched, so
// the bot still sees what the user answered.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, conv *domain.Conversation) error {
	// Copy the transcript so the caller's conversation is left as is.
	cloned := *conv
	cloned.Transcript = make([]domain.Utterance, len(conv.Transcript))
	for i, u := range conv.Transcript {
		if u.From == "user" {
			u.Text = m.mask(u.Text)
		}
		cloned.Transcript[i] = u
	}
	return m.next.Save(ctx, sessionID, &cloned)
}

func (m *piiMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
