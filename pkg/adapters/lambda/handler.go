// Package lambda runs the fulfillment hook on AWS Lambda.
package lambda

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// Handler adapts a Fulfiller to the Lambda invocation signature.
type Handler struct {
	bot    ports.Fulfiller
	logger *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithLogger sets the invocation logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler wraps bot.
func NewHandler(bot ports.Fulfiller, opts ...Option) *Handler {
	h := &Handler{
		bot:    bot,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invoke handles one platform event. Errors are returned to the platform as
// function errors; canned user messages are produced by the bot itself.
func (h *Handler) Invoke(ctx context.Context, ev domain.Event) (*domain.Response, error) {
	logger := h.logger.With("session_id", ev.SessionID, "intent", ev.SessionState.Intent.Name)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	resp, err := h.bot.Fulfill(ctx, &ev)
	if err != nil {
		logger.ErrorContext(ctx, "invocation failed", "err", err)
		return nil, err
	}
	logger.InfoContext(ctx, "invocation fulfilled", "slot", resp.SlotToElicit(), "closed", resp.Closed())
	return resp, nil
}

// Start blocks serving invocations. It never returns under the Lambda runtime.
func Start(bot ports.Fulfiller, opts ...Option) {
	lambda.Start(NewHandler(bot, opts...).Invoke)
}
