package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Game     GameConfig     `mapstructure:"game" validate:"required"`
	Extract  ExtractConfig  `mapstructure:"extract" validate:"required"`
	Blob     BlobConfig     `mapstructure:"blob"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// CORSAllowedOrigins lists the origins the browser client may call the
	// API from. A single "*" entry allows any origin.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig contains all database-related configuration settings.
// The default is an on-disk SQLite database so the server runs without any
// external services; pointing Driver at postgres switches to a shared
// PostgreSQL instance.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the session token settings. Sessions are anonymous;
// the secret only signs the short-lived tokens that tie a client to its
// in-memory game session.
type AuthConfig struct {
	SessionSecret          string `mapstructure:"session_secret" validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all generation backend related settings.
type LLMConfig struct {
	// APIKeys is an ordered list; the generator tries each key in turn when
	// the previous one is rejected or exhausted.
	APIKeys []string `mapstructure:"api_keys" validate:"required,min=1,dive,required"`

	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"required,gt=0"`

	// MaxSourceChars caps how much source material is included in a
	// generation prompt; longer material is truncated at prompt assembly.
	MaxSourceChars int `mapstructure:"max_source_chars" validate:"required,gt=0"`

	// PromptTemplatePath optionally overrides the embedded prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}

// GameConfig contains the gameplay settings.
type GameConfig struct {
	// PairCount is how many concept/meaning pairs each round presents.
	PairCount int `mapstructure:"pair_count" validate:"required,gte=2,lte=20"`

	// SessionTTLMinutes is how long an idle game session survives before
	// the registry janitor removes it.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"required,gt=0"`

	// PrefetchNextRound enables background generation of the next round's
	// pairs while the current round is still being played.
	PrefetchNextRound bool `mapstructure:"prefetch_next_round"`
}

// ExtractConfig contains settings for the content extraction layer.
type ExtractConfig struct {
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds" validate:"required,gt=0"`

	// PreferredLanguages orders transcript language selection for video
	// sources; the first available track wins.
	PreferredLanguages []string `mapstructure:"preferred_languages" validate:"required,min=1"`
}

// BlobConfig contains the optional S3-compatible object storage settings
// used to archive uploaded PDF sources. Either all fields are set or none;
// when unset, archiving is disabled and uploads are processed in memory only.
type BlobConfig struct {
	Endpoint        string `mapstructure:"endpoint" validate:"required_with=Bucket AccessKeyID SecretAccessKey,omitempty,url"`
	Bucket          string `mapstructure:"bucket" validate:"required_with=Endpoint AccessKeyID SecretAccessKey"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required_with=Endpoint Bucket SecretAccessKey"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=Endpoint Bucket AccessKeyID"`
}

// Enabled reports whether object storage archiving is configured.
func (b BlobConfig) Enabled() bool {
	return b.Endpoint != "" && b.Bucket != "" && b.AccessKeyID != "" && b.SecretAccessKey != ""
}
