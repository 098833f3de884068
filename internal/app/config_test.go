package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/selfreg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		in      Config
		want    *Config
		wantErr string
	}{
		{
			name: "defaults",
			in:   Config{},
			want: &Config{LogLevel: "info", LogFormat: "text"},
		},
		{
			name: "normalizes case",
			in:   Config{LogLevel: "DEBUG", LogFormat: "JSON", Parallelism: 3},
			want: &Config{LogLevel: "debug", LogFormat: "json", Parallelism: 3},
		},
		{
			name:    "bad level",
			in:      Config{LogLevel: "trace"},
			wantErr: `invalid log level "trace"`,
		},
		{
			name:    "bad format",
			in:      Config{LogFormat: "xml"},
			wantErr: `invalid log format "xml"`,
		},
		{
			name:    "negative parallelism",
			in:      Config{Parallelism: -1},
			wantErr: "invalid parallelism -1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("NewConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("reads variables", func(t *testing.T) {
		t.Setenv("SELFREG_MANIFEST", "order.hcl")
		t.Setenv("SELFREG_LOG_LEVEL", "warn")
		t.Setenv("SELFREG_LOG_FORMAT", "json")
		t.Setenv("SELFREG_STRICT", "true")
		t.Setenv("SELFREG_PARALLELISM", "8")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		want := Config{
			ManifestPath: "order.hcl",
			LogLevel:     "warn",
			LogFormat:    "json",
			Strict:       true,
			Parallelism:  8,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("ConfigFromEnv() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("bad value", func(t *testing.T) {
		t.Setenv("SELFREG_PARALLELISM", "lots")
		_, err := ConfigFromEnv()
		assert.ErrorContains(t, err, "failed to read environment")
	})
}

func TestNewLogger(t *testing.T) {
	var buf testutil.SafeBuffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
