// Package config provides functionality for managing configuration options
// for the client and the server using command-line flags, environment
// variables and an optional JSON config file.
//
// Precedence, highest first: explicitly set flags, environment variables,
// the config file, defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/atinyakov/WikiSmart/pkg/validator"
)

// ClientOptions holds the configuration values for the terminal client.
type ClientOptions struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api/v1.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// SessionFile is where the token and user are kept between runs.
	SessionFile string `mapstructure:"session_file" validate:"required"`

	// CAFile is an extra CA to trust for HTTPS.
	CAFile string `mapstructure:"ca_file"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// Cmd runs a single command instead of the shell.
	Cmd string `mapstructure:"cmd"`

	ShowVersion bool `mapstructure:"show_version"`

	// Config is the path to the config file.
	Config string `mapstructure:"-"`
}

// ServerOptions holds the configuration values for the reference backend.
type ServerOptions struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `mapstructure:"address" validate:"required"`

	// DatabaseDSN holds the database connection string.
	DatabaseDSN string `mapstructure:"database_dsn" validate:"required"`

	TLSCert string `mapstructure:"tls_cert" validate:"required_with=TLSKey"`
	TLSKey  string `mapstructure:"tls_key" validate:"required_with=TLSCert"`

	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"gt=0"`

	// WikipediaAPI may contain {lang}, replaced by the article's language.
	WikipediaAPI       string `mapstructure:"wikipedia_api" validate:"required"`
	WikipediaUserAgent string `mapstructure:"wikipedia_user_agent" validate:"required"`

	GroqAPIKey   string `mapstructure:"groq_api_key"`
	GroqModel    string `mapstructure:"groq_model" validate:"required"`
	GroqURL      string `mapstructure:"groq_url" validate:"required,url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model" validate:"required"`
	GeminiURL    string `mapstructure:"gemini_url" validate:"required,url"`

	LLMMaxInputChars int     `mapstructure:"llm_max_input_chars" validate:"min=100"`
	LLMMaxTokens     int     `mapstructure:"llm_max_tokens" validate:"min=1"`
	LLMTemperature   float64 `mapstructure:"llm_temperature" validate:"min=0,max=2"`

	// RedisAddr enables the summary and translation cache when set.
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`

	QuizRetention time.Duration `mapstructure:"quiz_retention" validate:"gt=0"`
	CleanInterval time.Duration `mapstructure:"clean_interval" validate:"gt=0"`

	// Admin account created at startup when AdminUsername is set.
	AdminUsername string `mapstructure:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email" validate:"required_with=AdminUsername,omitempty,email"`
	AdminPassword string `mapstructure:"admin_password" validate:"required_with=AdminUsername,omitempty,min=8,max=72"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	ShowVersion bool `mapstructure:"show_version"`

	Config string `mapstructure:"-"`
}

// setting binds one option to its flag, environment variable and default.
type setting struct {
	key   string
	flag  string
	env   string
	def   any
	usage string
}

func clientSettings() []setting {
	return []setting{
		{"base_url", "url", "API_BASE_URL", "http://localhost:8000/api/v1", "API base URL"},
		{"session_file", "session", "SESSION_FILE", defaultSessionFile(), "path to the session file"},
		{"ca_file", "ca", "CA_FILE", "", "path to an extra CA cert for HTTPS"},
		{"log_level", "log-level", "LOG_LEVEL", "warn", "log level: debug | info | warn | error"},
		{"cmd", "cmd", "", "", "run one command (e.g. health) and exit"},
		{"show_version", "version", "", false, "show build version and date"},
	}
}

func serverSettings() []setting {
	return []setting{
		{"address", "a", "SERVER_ADDRESS", "localhost:8000", "run on ip:port server"},
		{"database_dsn", "d", "DATABASE_DSN", "", "db address"},
		{"tls_cert", "tls-cert", "TLS_CERT", "", "path to server TLS cert (enables HTTPS)"},
		{"tls_key", "tls-key", "TLS_KEY", "", "path to server TLS key"},
		{"jwt_secret", "jwt-secret", "JWT_SECRET", "", "HMAC secret for access tokens"},
		{"token_ttl", "token-ttl", "TOKEN_TTL", 30 * time.Minute, "access token lifetime"},
		{"wikipedia_api", "wikipedia-api", "WIKIPEDIA_API", "https://{lang}.wikipedia.org/w/api.php", "MediaWiki action API endpoint"},
		{"wikipedia_user_agent", "wikipedia-ua", "WIKIPEDIA_USER_AGENT", "WikiSmartEdu/1.0 (contact@example.com)", "User-Agent sent to Wikipedia"},
		{"groq_api_key", "groq-key", "GROQ_API_KEY", "", "Groq API key"},
		{"groq_model", "groq-model", "GROQ_MODEL", "llama-3.1-8b-instant", "Groq model for summaries"},
		{"groq_url", "groq-url", "GROQ_URL", "https://api.groq.com/openai/v1", "Groq OpenAI-compatible base URL"},
		{"gemini_api_key", "gemini-key", "GEMINI_API_KEY", "", "Gemini API key"},
		{"gemini_model", "gemini-model", "GEMINI_MODEL", "gemini-2.5-flash", "Gemini model for translation and quizzes"},
		{"gemini_url", "gemini-url", "GEMINI_URL", "https://generativelanguage.googleapis.com/v1beta", "Gemini API base URL"},
		{"llm_max_input_chars", "llm-max-input", "LLM_MAX_INPUT_CHARS", 12000, "article characters sent to a model"},
		{"llm_max_tokens", "llm-max-tokens", "LLM_MAX_TOKENS", 1024, "completion token limit"},
		{"llm_temperature", "llm-temperature", "LLM_TEMPERATURE", 0.3, "sampling temperature"},
		{"redis_addr", "redis", "REDIS_ADDR", "", "redis address for the result cache"},
		{"redis_password", "redis-password", "REDIS_PASSWORD", "", "redis password"},
		{"cache_ttl", "cache-ttl", "CACHE_TTL", 24 * time.Hour, "cached result lifetime"},
		{"quiz_retention", "quiz-retention", "QUIZ_RETENTION", 30 * 24 * time.Hour, "how long generated quizzes are kept"},
		{"clean_interval", "clean-interval", "CLEAN_INTERVAL", time.Hour, "quiz cleaner interval"},
		{"admin_username", "admin-user", "ADMIN_USERNAME", "", "bootstrap admin username"},
		{"admin_email", "admin-email", "ADMIN_EMAIL", "", "bootstrap admin email"},
		{"admin_password", "admin-password", "ADMIN_PASSWORD", "", "bootstrap admin password"},
		{"log_level", "log-level", "LOG_LEVEL", "info", "log level: debug | info | warn | error"},
		{"show_version", "version", "", false, "show build version and date"},
	}
}

// ParseClient parses args (without the program name) into client options.
func ParseClient(args []string) (*ClientOptions, error) {
	opts := &ClientOptions{}
	path, err := load("client", args, "", clientSettings(), opts)
	if err != nil {
		return nil, err
	}
	opts.Config = path
	return opts, nil
}

// ParseServer parses args (without the program name) into server options.
func ParseServer(args []string) (*ServerOptions, error) {
	opts := &ServerOptions{}
	path, err := load("server", args, "config.json", serverSettings(), opts)
	if err != nil {
		return nil, err
	}
	opts.Config = path
	return opts, nil
}

func load(name string, args []string, defConfig string, settings []setting, out any) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var configPath string
	fs.StringVar(&configPath, "config", defConfig, "path to config file")
	fs.StringVar(&configPath, "c", defConfig, "path to config file (shorthand)")

	byFlag := make(map[string]string, len(settings))
	for _, s := range settings {
		byFlag[s.flag] = s.key
		switch d := s.def.(type) {
		case string:
			fs.String(s.flag, d, s.usage)
		case bool:
			fs.Bool(s.flag, d, s.usage)
		case int:
			fs.Int(s.flag, d, s.usage)
		case float64:
			fs.Float64(s.flag, d, s.usage)
		case time.Duration:
			fs.Duration(s.flag, d, s.usage)
		default:
			return "", fmt.Errorf("setting %s: unsupported default %T", s.key, s.def)
		}
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}

	configSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "c" {
			configSet = true
		}
	})
	if !configSet {
		if env := os.Getenv("CONFIG"); env != "" {
			configPath = env
		}
	}

	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if s.env == "" {
			continue
		}
		if err := v.BindEnv(s.key, s.env); err != nil {
			return "", fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return "", fmt.Errorf("error while reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error while reading config file: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := byFlag[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	// Log levels are case-insensitive wherever they come from.
	v.Set("log_level", strings.ToLower(strings.TrimSpace(v.GetString("log_level"))))

	if err := v.Unmarshal(out); err != nil {
		return "", fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.ValidateStruct(out); err != nil {
		return "", err
	}
	return configPath, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".wikismart-session.json"
	}
	return filepath.Join(dir, "wikismart", "session.json")
}
