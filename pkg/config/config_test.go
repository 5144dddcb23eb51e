package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 16, cfg.KeyLength)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.EventLog)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr error
	}{
		{
			name: "empty uses defaults",
			yaml: "",
			want: Config{KeyLength: 16, LogLevel: "info", LogFormat: "text"},
		},
		{
			name: "all fields",
			yaml: "key_length: 32\nlog_level: debug\nlog_format: json\nevent_log: /tmp/trust.rlog\n",
			want: Config{KeyLength: 32, LogLevel: "debug", LogFormat: "json", EventLog: "/tmp/trust.rlog"},
		},
		{
			name: "partial",
			yaml: "log_level: warn\n",
			want: Config{KeyLength: 16, LogLevel: "warn", LogFormat: "text"},
		},
		{
			name:    "bad key length",
			yaml:    "key_length: 20\n",
			wantErr: ErrInvalidKeyLength,
		},
		{
			name:    "bad log level",
			yaml:    "log_level: loud\n",
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			yaml:    "log_format: xml\n",
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.yaml))
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("key_lenght: 32\n"))
	assert.Error(t, err)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("key_length: [\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rkp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key_length: 24\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.KeyLength)
	assert.Equal(t, 24, cfg.Deriver().KeyLength)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

func TestNewSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "info", LogFormat: "json"}
	logger := slog.New(cfg.NewSlogHandler(&buf))

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), out)
}
