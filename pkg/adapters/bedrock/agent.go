// Package bedrock answers prompts with an Amazon Bedrock agent.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/smithy-go"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// InvokeAgentAPI is the part of the Bedrock agent runtime client used here.
type InvokeAgentAPI interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// eventStream is satisfied by *bedrockagentruntime.InvokeAgentEventStream.
type eventStream interface {
	Events() <-chan types.ResponseStream
	Close() error
	Err() error
}

type streamOpener func(ctx context.Context, in *bedrockagentruntime.InvokeAgentInput) (eventStream, error)

// Agent implements ports.Generator on top of InvokeAgent.
type Agent struct {
	agentID string
	aliasID string
	open    streamOpener
	logger  *slog.Logger
}

var _ ports.Generator = (*Agent)(nil)

// Option configures the Agent.
type Option func(*Agent)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Agent using api for calls.
func New(api InvokeAgentAPI, agentID, aliasID string, opts ...Option) *Agent {
	a := &Agent{
		agentID: agentID,
		aliasID: aliasID,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		open: func(ctx context.Context, in *bedrockagentruntime.InvokeAgentInput) (eventStream, error) {
			out, err := api.InvokeAgent(ctx, in)
			if err != nil {
				return nil, err
			}
			return out.GetStream(), nil
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig loads the default AWS configuration for region and creates an Agent.
func NewFromConfig(ctx context.Context, region, agentID, aliasID string, opts ...Option) (*Agent, error) {
	if agentID == "" || aliasID == "" {
		return nil, fmt.Errorf("bedrock agent id and alias id are required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return New(bedrockagentruntime.NewFromConfig(cfg), agentID, aliasID, opts...), nil
}

// Generate invokes the agent and concatenates the streamed chunks.
// Throttling is reported as an error wrapping domain.ErrThrottled.
func (a *Agent) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stream, err := a.open(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(a.agentID),
		AgentAliasId: aws.String(a.aliasID),
		SessionId:    aws.String(req.SessionID),
		InputText:    aws.String(req.Prompt),
	})
	if err != nil {
		return "", a.wrap(err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-stream.Events():
			if !ok {
				if err := stream.Err(); err != nil {
					return "", a.wrap(err)
				}
				a.logger.DebugContext(ctx, "agent answered", "session_id", req.SessionID, "bytes", sb.Len())
				return sb.String(), nil
			}
			if chunk, ok := event.(*types.ResponseStreamMemberChunk); ok {
				sb.Write(chunk.Value.Bytes)
			}
		}
	}
}

func (a *Agent) wrap(err error) error {
	if isThrottling(err) {
		return fmt.Errorf("invoke agent: %w: %v", domain.ErrThrottled, err)
	}
	return fmt.Errorf("invoke agent: %w", err)
}

func isThrottling(err error) bool {
	var te *types.ThrottlingException
	if errors.As(err, &te) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && strings.EqualFold(apiErr.ErrorCode(), "ThrottlingException")
}
