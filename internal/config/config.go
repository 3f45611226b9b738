// Package config loads the bot's runtime settings from an optional YAML file
// overlaid with environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/persistence/middleware"
)

// Generator backends.
const (
	GeneratorBedrock = "bedrock"
	GeneratorOpenAI  = "openai"
	GeneratorEcho    = "echo"
)

// Config holds every runtime setting.
type Config struct {
	Generator       string        `yaml:"generator" mapstructure:"generator"`
	AgentID         string        `yaml:"agent_id" mapstructure:"agent_id"`
	AgentAliasID    string        `yaml:"agent_alias_id" mapstructure:"agent_alias_id"`
	KnowledgeBaseID string        `yaml:"knowledge_base_id" mapstructure:"knowledge_base_id"`
	Region          string        `yaml:"region" mapstructure:"region"`
	OpenAIAPIKey    string        `yaml:"openai_api_key" mapstructure:"openai_api_key"`
	OpenAIModel     string        `yaml:"openai_model" mapstructure:"openai_model"`
	OpenAIBaseURL   string        `yaml:"openai_base_url" mapstructure:"openai_base_url"`
	GenerateTimeout time.Duration `yaml:"generate_timeout" mapstructure:"generate_timeout"`
	ChartData       bool          `yaml:"chart_data" mapstructure:"chart_data"`
	RedisAddr       string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB         int           `yaml:"redis_db" mapstructure:"redis_db"`
	SessionTTL      time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	LogLevel        string        `yaml:"log_level" mapstructure:"log_level"`
	ListenAddr      string        `yaml:"listen_addr" mapstructure:"listen_addr"`

	// SessionKey seals stored conversations with AES-256 (base64, 32 bytes).
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionFallbackKeys still open conversations sealed before a key rotation.
	SessionFallbackKeys []string `yaml:"session_fallback_keys" mapstructure:"session_fallback_keys"`
	// MaskTranscripts masks e-mail addresses and phone numbers in stored user lines.
	MaskTranscripts bool `yaml:"mask_transcripts" mapstructure:"mask_transcripts"`
}

// envKeys maps environment variables onto config keys.
var envKeys = map[string]string{
	"BQA_GENERATOR":          "generator",
	"BEDROCK_AGENT_ID":       "agent_id",
	"BEDROCK_AGENT_ALIAS_ID": "agent_alias_id",
	"KNOWLEDGEBASE_ID":       "knowledge_base_id",
	"AWS_REGION":             "region",
	"OPENAI_API_KEY":         "openai_api_key",
	"OPENAI_MODEL":           "openai_model",
	"OPENAI_BASE_URL":        "openai_base_url",
	"BQA_GENERATE_TIMEOUT":   "generate_timeout",
	"BQA_CHART_DATA":         "chart_data",
	"REDIS_ADDR":             "redis_addr",
	"REDIS_PASSWORD":         "redis_password",
	"REDIS_DB":               "redis_db",
	"BQA_SESSION_TTL":        "session_ttl",
	"BQA_LOG_LEVEL":          "log_level",
	"BQA_LISTEN_ADDR":        "listen_addr",
	"BQA_SESSION_KEY":        "session_key",
	"BQA_SESSION_OLD_KEYS":   "session_fallback_keys",
	"BQA_MASK_TRANSCRIPTS":   "mask_transcripts",
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Generator:       GeneratorBedrock,
		Region:          "us-east-1",
		OpenAIModel:     "gpt-4o",
		GenerateTimeout: 25 * time.Second,
		SessionTTL:      24 * time.Hour,
		LogLevel:        "info",
		ListenAddr:      ":8080",
	}
}

// Load reads path (if not empty) and then applies the environment.
func Load(path string) (Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overlay := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if key, known := envKeys[name]; known {
			overlay[key] = value
		}
	}
	if len(overlay) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		})
		if err != nil {
			return cfg, err
		}
		if err := dec.Decode(overlay); err != nil {
			return cfg, fmt.Errorf("decode environment: %w", err)
		}
	}

	cfg.Generator = strings.ToLower(strings.TrimSpace(cfg.Generator))
	return cfg, nil
}

// Validate reports settings the selected generator cannot run without.
func (c Config) Validate() error {
	var errs []error
	switch c.Generator {
	case GeneratorBedrock:
		if c.AgentID == "" {
			errs = append(errs, errors.New("agent_id (BEDROCK_AGENT_ID) is required for the bedrock generator"))
		}
		if c.AgentAliasID == "" {
			errs = append(errs, errors.New("agent_alias_id (BEDROCK_AGENT_ALIAS_ID) is required for the bedrock generator"))
		}
	case GeneratorOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("openai_api_key (OPENAI_API_KEY) is required for the openai generator"))
		}
	case GeneratorEcho:
	default:
		errs = append(errs, fmt.Errorf("unknown generator %q (want bedrock, openai or echo)", c.Generator))
	}
	if c.GenerateTimeout <= 0 {
		errs = append(errs, errors.New("generate_timeout must be positive"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session_ttl cannot be negative"))
	}
	if c.SessionKey != "" {
		if _, err := middleware.ParseKey(c.SessionKey); err != nil {
			errs = append(errs, fmt.Errorf("session_key: %w", err))
		}
	}
	for i, k := range c.SessionFallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("session_fallback_keys[%d]: %w", i, err))
		}
	}
	if len(c.SessionFallbackKeys) > 0 && c.SessionKey == "" {
		errs = append(errs, errors.New("session_fallback_keys need a session_key"))
	}
	return errors.Join(errs...)
}

// LogValue keeps secrets out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("generator", c.Generator),
		slog.String("region", c.Region),
		slog.String("agent_id", c.AgentID),
		slog.String("agent_alias_id", c.AgentAliasID),
		slog.String("openai_model", c.OpenAIModel),
		slog.Bool("openai_api_key_set", c.OpenAIAPIKey != ""),
		slog.Duration("generate_timeout", c.GenerateTimeout),
		slog.Bool("chart_data", c.ChartData),
		slog.String("redis_addr", c.RedisAddr),
		slog.Duration("session_ttl", c.SessionTTL),
		slog.String("listen_addr", c.ListenAddr),
		slog.Bool("session_key_set", c.SessionKey != ""),
		slog.Bool("mask_transcripts", c.MaskTranscripts),
	)
}
