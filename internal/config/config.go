package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/drpaneas/redditpersona/internal/llm"
	"github.com/drpaneas/redditpersona/internal/reddit"
)

const (
	DefaultUserAgent  = "RedditPersonaAgent/0.1"
	DefaultOllamaHost = "http://localhost:11434"
	MaxLimit          = 1000
)

var validUsername = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Config holds all runtime configuration for redditpersona.
// Values come from flags, an optional YAML config file, REDDITPERSONA_*
// environment variables and, for secrets, the plain environment or .env.
type Config struct {
	Username    string `mapstructure:"-"`
	CompareWith string `mapstructure:"-"`

	RedditClientID     string `mapstructure:"-"`
	RedditClientSecret string `mapstructure:"-"`
	RedditUserAgent    string `mapstructure:"-"`

	Provider    llm.ProviderName `mapstructure:"provider"`
	Model       string           `mapstructure:"model"`
	APIKey      string           `mapstructure:"-"`
	OllamaHost  string           `mapstructure:"-"`
	Temperature float32          `mapstructure:"temperature"`

	OutputDir string        `mapstructure:"output"`
	CacheDir  string        `mapstructure:"cache_dir"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	NoCache   bool          `mapstructure:"no_cache"`

	Limit         int      `mapstructure:"limit"`
	Topics        int      `mapstructure:"topics"`
	SkipBenchmark bool     `mapstructure:"skip_benchmark"`
	Print         bool     `mapstructure:"print"`
	Formats       []string `mapstructure:"formats"`
	Verbose       bool     `mapstructure:"verbose"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(llm.ProviderOpenRouter))
	v.SetDefault("model", "")
	v.SetDefault("temperature", 0.5)
	v.SetDefault("output", "./output")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("no_cache", false)
	v.SetDefault("limit", reddit.DefaultLimit)
	v.SetDefault("topics", 5)
	v.SetDefault("skip_benchmark", false)
	v.SetDefault("print", false)
	v.SetDefault("formats", []string{"markdown", "json", "svg"})
	v.SetDefault("verbose", false)
	v.SetDefault("reddit_user_agent", DefaultUserAgent)
	v.SetDefault("ollama_host", DefaultOllamaHost)
}

// ReadFiles loads the optional .env file at dotenvPath, then merges the YAML
// config at configPath on top. Missing files are ignored unless configPath
// was given explicitly.
func ReadFiles(v *viper.Viper, dotenvPath, configPath string) error {
	if dotenvPath != "" {
		v.SetConfigFile(dotenvPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", dotenvPath, err)
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(configPath), "."))
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}
	return nil
}

// Load builds a Config from v. Flags bound to v take precedence over the
// environment, which takes precedence over config files and defaults.
func Load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("REDDITPERSONA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LoadFromEnv(v)
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	return cfg, nil
}

// LoadFromEnv populates secrets and hosts. Unprefixed environment variables
// win over values read from .env.
func (c *Config) LoadFromEnv(v *viper.Viper) {
	get := func(key string) string {
		if err := v.BindEnv(key, key); err != nil {
			return ""
		}
		return strings.TrimSpace(v.GetString(key))
	}
	c.RedditClientID = get("REDDIT_CLIENT_ID")
	c.RedditClientSecret = get("REDDIT_CLIENT_SECRET")
	c.RedditUserAgent = get("REDDIT_USER_AGENT")
	if c.RedditUserAgent == "" {
		c.RedditUserAgent = DefaultUserAgent
	}
	c.OllamaHost = get("OLLAMA_HOST")
	if c.OllamaHost == "" {
		c.OllamaHost = DefaultOllamaHost
	}
	if c.APIKey == "" {
		if key := envKeyForProvider(c.Provider); key != "" {
			c.APIKey = get(key)
		}
	}
}

// Credentials returns the Reddit application credentials.
func (c *Config) Credentials() reddit.Credentials {
	return reddit.Credentials{
		ClientID:     c.RedditClientID,
		ClientSecret: c.RedditClientSecret,
		UserAgent:    c.RedditUserAgent,
	}
}

// LLM returns the provider configuration.
func (c *Config) LLM() llm.ProviderConfig {
	return llm.ProviderConfig{
		Name:       c.Provider,
		APIKey:     c.APIKey,
		Model:      c.Model,
		OllamaHost: c.OllamaHost,
	}
}

// Validate checks the settings every command needs. needLLM is false for
// analytics-only runs.
func (c *Config) Validate(needLLM bool) error {
	for _, u := range []string{c.Username, c.CompareWith} {
		if u == "" {
			continue
		}
		if !validUsername.MatchString(u) {
			return fmt.Errorf("invalid reddit username %q", u)
		}
	}
	if c.Username == "" {
		return fmt.Errorf("reddit username is required")
	}
	if c.RedditClientID == "" || c.RedditClientSecret == "" {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET must be set (environment or .env)")
	}
	if c.Limit < 1 || c.Limit > MaxLimit {
		return fmt.Errorf("--limit must be between 1 and %d", MaxLimit)
	}
	if c.Topics < 1 {
		return fmt.Errorf("--topics must be at least 1")
	}
	if !needLLM {
		return nil
	}
	switch c.Provider {
	case llm.ProviderOpenRouter, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be openrouter, openai, anthropic, or ollama", c.Provider)
	}
	if c.APIKey == "" && c.Provider != llm.ProviderOllama {
		return fmt.Errorf("%s requires an API key (set %s)", c.Provider, envKeyForProvider(c.Provider))
	}
	return nil
}

// ExtractUsername accepts a profile URL, "u/name", "/user/name/" or a bare
// name and returns the username.
func ExtractUsername(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Path
	}
	var parts []string
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts[:len(parts)-1] {
		if p == "u" || p == "user" {
			return parts[i+1]
		}
	}
	return parts[len(parts)-1]
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenRouter:
		return "openai/gpt-4o-mini"
	case llm.ProviderOpenAI:
		return "gpt-4o-mini"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".cache"
	}
	return filepath.Join(dir, "redditpersona")
}
