package insight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bahrain-bp/bqa-insight-ai/internal/runtime"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/flows"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
)

// HandlerFunc handles every turn of an intent that has no step tree.
type HandlerFunc func(ctx context.Context, s *domain.Session) (domain.Action, error)

// Bot is the high-level entry point of the library.
// It wraps the internal dispatcher and the declared dialog trees.
type Bot struct {
	runtime   *runtime.Engine
	generator ports.Generator
	prompts   *prompts.Library
	trees     map[string]*domain.Step
	handlers  map[string]HandlerFunc
	timeout   time.Duration
	chartData bool
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the bot.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithPrompts replaces the embedded prompt templates.
func WithPrompts(lib *prompts.Library) Option {
	return func(b *Bot) {
		b.prompts = lib
	}
}

// WithGenerateTimeout bounds every generator call (default 25s).
func WithGenerateTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.timeout = d
	}
}

// WithChartData enables chart JSON extraction after each successful analysis.
func WithChartData(enabled bool) Option {
	return func(b *Bot) {
		b.chartData = enabled
	}
}

// WithHandler routes intent to a fixed handler. Handlers take precedence over step trees.
func WithHandler(intent string, h HandlerFunc) Option {
	return func(b *Bot) {
		b.handlers[intent] = h
	}
}

// New builds a Bot answering with gen.
func New(gen ports.Generator, opts ...Option) (*Bot, error) {
	b := &Bot{
		generator: gen,
		handlers:  make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if b.prompts == nil {
		b.prompts = prompts.Default()
	}
	for _, name := range prompts.Builtin() {
		if !b.prompts.Has(name) {
			return nil, fmt.Errorf("prompt library lacks template %q", name)
		}
	}

	trees, err := flows.Trees(b.prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to build dialog trees: %w", err)
	}
	b.trees = trees

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(b.hooks),
		runtime.WithLogger(b.logger),
		runtime.WithGenerateTimeout(b.timeout),
	}
	for intent, h := range b.handlers {
		runtimeOpts = append(runtimeOpts, runtime.WithHandler(intent, runtime.HandlerFunc(h)))
	}
	if b.chartData {
		lib := b.prompts
		runtimeOpts = append(runtimeOpts, runtime.WithChartData(func(analysis string) (string, error) {
			return lib.Render(prompts.ChartData, prompts.Data{Text: analysis})
		}))
	}

	b.runtime = runtime.NewEngine(trees, gen, runtimeOpts...)
	return b, nil
}

// Fulfill processes one dialog turn.
func (b *Bot) Fulfill(ctx context.Context, ev *domain.Event) (*domain.Response, error) {
	return b.runtime.Fulfill(ctx, ev)
}

// Intents lists the intents with a step tree, sorted.
func (b *Bot) Intents() []string {
	names := make([]string, 0, len(b.trees))
	for name := range b.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tree returns the step tree of intent.
func (b *Bot) Tree(intent string) (*domain.Step, bool) {
	return b.runtime.Tree(intent)
}

// Trees returns the step trees keyed by intent.
func (b *Bot) Trees() map[string]*domain.Step {
	out := make(map[string]*domain.Step, len(b.trees))
	for k, v := range b.trees {
		out[k] = v
	}
	return out
}

// Options returns the valid values of a branching slot, or nil for free-text slots.
func (b *Bot) Options(intent, slot string) []string {
	tree, ok := b.trees[intent]
	if !ok {
		return nil
	}
	return tree.SlotOptions(slot)
}

// ResolveOption maps free text onto one of the options of slot, ignoring case.
func (b *Bot) ResolveOption(intent, slot, text string) (string, bool) {
	for _, opt := range b.Options(intent, slot) {
		if strings.EqualFold(opt, strings.TrimSpace(text)) {
			return opt, true
		}
	}
	return "", false
}

// SlotPrompt returns the question the platform would ask for slot.
func (b *Bot) SlotPrompt(slot string) string {
	if p, ok := flows.SlotPrompt(slot); ok {
		return p
	}
	return fmt.Sprintf("Please provide %s.", slot)
}

// Prompts exposes the template library in use.
func (b *Bot) Prompts() *prompts.Library {
	return b.prompts
}
