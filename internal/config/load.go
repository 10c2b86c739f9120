package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultSQLiteURL is the zero-configuration database location. WAL mode and
// a busy timeout keep the single-file database usable under the concurrent
// request handling of the HTTP server.
const DefaultSQLiteURL = "file:kavram.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Load reads configuration from an optional config.yaml in the working
// directory and from environment variables with the KAVRAM_ prefix.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", DefaultSQLiteURL)
	v.SetDefault("auth.session_lifetime_minutes", 120)
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.max_source_chars", 40000)
	v.SetDefault("game.pair_count", 5)
	v.SetDefault("game.session_ttl_minutes", 60)
	v.SetDefault("game.prefetch_next_round", true)
	v.SetDefault("extract.http_timeout_seconds", 15)
	v.SetDefault("extract.preferred_languages", []string{"tr", "en"})

	// Read the optional config file from the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("KAVRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind every key so Unmarshal sees environment-only values
	// that have no default (secrets, API keys, blob storage).
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "KAVRAM_SERVER_PORT"},
		{"server.log_level", "KAVRAM_SERVER_LOG_LEVEL"},
		{"server.cors_allowed_origins", "KAVRAM_SERVER_CORS_ALLOWED_ORIGINS"},
		{"database.driver", "KAVRAM_DATABASE_DRIVER"},
		{"database.url", "KAVRAM_DATABASE_URL"},
		{"auth.session_secret", "KAVRAM_AUTH_SESSION_SECRET"},
		{"auth.session_lifetime_minutes", "KAVRAM_AUTH_SESSION_LIFETIME_MINUTES"},
		{"llm.api_keys", "KAVRAM_LLM_API_KEYS"},
		{"llm.model_name", "KAVRAM_LLM_MODEL_NAME"},
		{"llm.max_retries", "KAVRAM_LLM_MAX_RETRIES"},
		{"llm.retry_delay_seconds", "KAVRAM_LLM_RETRY_DELAY_SECONDS"},
		{"llm.max_source_chars", "KAVRAM_LLM_MAX_SOURCE_CHARS"},
		{"llm.prompt_template_path", "KAVRAM_LLM_PROMPT_TEMPLATE_PATH"},
		{"game.pair_count", "KAVRAM_GAME_PAIR_COUNT"},
		{"game.session_ttl_minutes", "KAVRAM_GAME_SESSION_TTL_MINUTES"},
		{"game.prefetch_next_round", "KAVRAM_GAME_PREFETCH_NEXT_ROUND"},
		{"extract.http_timeout_seconds", "KAVRAM_EXTRACT_HTTP_TIMEOUT_SECONDS"},
		{"extract.preferred_languages", "KAVRAM_EXTRACT_PREFERRED_LANGUAGES"},
		{"blob.endpoint", "KAVRAM_BLOB_ENDPOINT"},
		{"blob.bucket", "KAVRAM_BLOB_BUCKET"},
		{"blob.access_key_id", "KAVRAM_BLOB_ACCESS_KEY_ID"},
		{"blob.secret_access_key", "KAVRAM_BLOB_SECRET_ACCESS_KEY"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	// Unmarshal and validate
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// List values arrive comma-separated from the environment; trim the
	// entries so "a, b" and "a,b" are equivalent.
	cfg.LLM.APIKeys = normalizeList(cfg.LLM.APIKeys)
	cfg.Extract.PreferredLanguages = normalizeList(cfg.Extract.PreferredLanguages)
	cfg.Server.CORSAllowedOrigins = normalizeList(cfg.Server.CORSAllowedOrigins)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// normalizeList trims whitespace around each entry and drops empty entries.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
