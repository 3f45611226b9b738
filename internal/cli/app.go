package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	insight "github.com/bahrain-bp/bqa-insight-ai"
	"github.com/bahrain-bp/bqa-insight-ai/internal/config"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/bedrock"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/openai"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/redis"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/observability"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/persistence/middleware"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/prompts"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/registry"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/runner"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/session"
)

// App is the wired bot with the collaborators every command shares.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Bot       *insight.Bot
	Manager   *session.Manager
	Simulator *runner.Simulator
	Metrics   *observability.Metrics
	Registry  *prometheus.Registry

	closers []func() error
}

// AppOptions tweak wiring for a single command.
type AppOptions struct {
	// PromptsFile replaces the embedded prompt templates.
	PromptsFile string
	// Generator overrides the generator chosen by the config (tests, offline commands).
	Generator ports.Generator
	// Store overrides the session store chosen by the config.
	Store ports.StateStore
}

// NewApp wires the bot from cfg.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger, opts AppOptions) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = observability.NewMetrics(app.Registry)

	if cfg.KnowledgeBaseID != "" {
		logger.Info("knowledge base id is configured but retrieval goes through the agent", "knowledge_base_id", cfg.KnowledgeBaseID)
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = NewGenerator(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	botOpts := []insight.Option{
		insight.WithLogger(logger),
		insight.WithGenerateTimeout(cfg.GenerateTimeout),
		insight.WithChartData(cfg.ChartData),
		insight.WithLifecycleHooks(observability.Chain(app.Metrics.Hooks(), observability.LogHooks(logger))),
	}
	if opts.PromptsFile != "" {
		lib, err := prompts.LoadFile(opts.PromptsFile)
		if err != nil {
			return nil, err
		}
		botOpts = append(botOpts, insight.WithPrompts(lib))
	}
	bot, err := insight.New(gen, botOpts...)
	if err != nil {
		return nil, err
	}
	app.Bot = bot

	store := opts.Store
	managerOpts := []session.Option{session.WithLogger(logger)}
	if store == nil {
		store, managerOpts = app.newStore(cfg, managerOpts)
	}
	store, err = protect(store, cfg)
	if err != nil {
		return nil, err
	}
	app.Manager = session.NewManager(store, managerOpts...)
	app.Simulator = runner.NewSimulator(bot, app.Manager, runner.WithSimulatorLogger(logger))
	return app, nil
}

func (a *App) newStore(cfg config.Config, managerOpts []session.Option) (ports.StateStore, []session.Option) {
	if cfg.RedisAddr == "" {
		return memory.NewStore(), managerOpts
	}
	store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.SessionTTL))
	a.closers = append(a.closers, store.Close)
	a.Logger.Debug("using redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return store, append(managerOpts, session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)))
}

// protect wraps store with the transcript masking and encryption the config asks for.
func protect(store ports.StateStore, cfg config.Config) (ports.StateStore, error) {
	var mws []middleware.Middleware
	if cfg.MaskTranscripts {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	if cfg.SessionKey != "" {
		enc := middleware.EncryptionConfig{}
		var err error
		if enc.ActiveKey, err = middleware.ParseKey(cfg.SessionKey); err != nil {
			return nil, err
		}
		for _, k := range cfg.SessionFallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, err
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}
	return middleware.Chain(store, mws...), nil
}

// Close releases connections opened by NewApp.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// GeneratorDeps is what a generator factory gets to build its backend.
type GeneratorDeps struct {
	Config config.Config
	Logger *slog.Logger
}

// Generators holds the generator backends selectable through cfg.Generator.
var Generators = registry.New[GeneratorDeps, ports.Generator]()

func init() {
	Generators.Register(config.GeneratorBedrock, func(ctx context.Context, d GeneratorDeps) (ports.Generator, error) {
		cfg := d.Config
		return bedrock.NewFromConfig(ctx, cfg.Region, cfg.AgentID, cfg.AgentAliasID, bedrock.WithLogger(d.Logger))
	})
	Generators.Register(config.GeneratorOpenAI, func(_ context.Context, d GeneratorDeps) (ports.Generator, error) {
		opts := []openai.Option{openai.WithLogger(d.Logger)}
		if d.Config.OpenAIModel != "" {
			opts = append(opts, openai.WithModel(d.Config.OpenAIModel))
		}
		if d.Config.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(d.Config.OpenAIBaseURL))
		}
		return openai.New(d.Config.OpenAIAPIKey, opts...)
	})
	Generators.Register(config.GeneratorEcho, func(context.Context, GeneratorDeps) (ports.Generator, error) {
		return memory.NewEcho(), nil
	})
}

// NewGenerator builds the generator selected by cfg.Generator.
func NewGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Generator, error) {
	gen, err := Generators.Build(ctx, cfg.Generator, GeneratorDeps{Config: cfg, Logger: logger})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, fmt.Errorf("unknown generator %q (have %v)", cfg.Generator, Generators.Names())
	}
	return gen, err
}
