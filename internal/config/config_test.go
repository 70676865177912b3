package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseClient_Defaults(t *testing.T) {
	opts, err := ParseClient(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api/v1", opts.BaseURL)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.NotEmpty(t, opts.SessionFile)
	assert.Empty(t, opts.CAFile)
	assert.False(t, opts.ShowVersion)
}

func TestParseClient_Precedence(t *testing.T) {
	path := writeConfig(t, `{"base_url":"http://file:1/api/v1","log_level":"info","ca_file":"file-ca.pem"}`)
	t.Setenv("API_BASE_URL", "http://env:2/api/v1")

	opts, err := ParseClient([]string{"-config", path, "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "http://env:2/api/v1", opts.BaseURL, "env beats file")
	assert.Equal(t, "debug", opts.LogLevel, "flag beats file")
	assert.Equal(t, "file-ca.pem", opts.CAFile, "file beats default")
	assert.Equal(t, path, opts.Config)

	opts, err = ParseClient([]string{"-config", path, "-url", "http://flag:3/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:3/api/v1", opts.BaseURL, "flag beats env")
}

func TestParse_LogLevelIgnoresCase(t *testing.T) {
	opts, err := ParseClient([]string{"-log-level", "INFO"})
	require.NoError(t, err)
	assert.Equal(t, "info", opts.LogLevel)

	path := writeConfig(t, `{"log_level":" Debug "}`)
	opts, err = ParseClient([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestParseClient_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad url", []string{"-url", "not a url"}, "base_url must be a valid URL"},
		{"bad level", []string{"-log-level", "loud"}, "log_level must be one of"},
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClient(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseClient_BrokenConfigFile(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := ParseClient([]string{"-c", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error while reading config file")
}

func TestParseServer(t *testing.T) {
	path := writeConfig(t, `{"database_dsn":"postgres://file","jwt_secret":"0123456789abcdef","quiz_retention":"48h"}`)
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("LLM_MAX_INPUT_CHARS", "5000")

	opts, err := ParseServer([]string{"-config", path, "-token-ttl", "5m", "-redis", "localhost:6379"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Addr)
	assert.Equal(t, "postgres://file", opts.DatabaseDSN)
	assert.Equal(t, 5*time.Minute, opts.TokenTTL)
	assert.Equal(t, 48*time.Hour, opts.QuizRetention)
	assert.Equal(t, time.Hour, opts.CleanInterval)
	assert.Equal(t, 5000, opts.LLMMaxInputChars)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
	assert.Equal(t, "llama-3.1-8b-instant", opts.GroqModel)
}

func TestParseServer_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing secret", []string{"-d", "postgres://x"}, "jwt_secret is required"},
		{"short secret", []string{"-d", "postgres://x", "-jwt-secret", "short"}, "jwt_secret must be at least 16 characters"},
		{"cert without key", []string{"-d", "postgres://x", "-jwt-secret", "0123456789abcdef", "-tls-cert", "a.crt"}, "tls_key"},
		{"admin without password", []string{"-d", "postgres://x", "-jwt-secret", "0123456789abcdef", "-admin-user", "root", "-admin-email", "r@x.io"}, "admin_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServer(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
