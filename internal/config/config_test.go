package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/shopper-spectrum/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPECTRUM_TEST_DIR", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "memory", in: ":memory:", want: ":memory:"},
		{name: "home", in: "~", want: home},
		{name: "home relative", in: "~/spectrum/db.sqlite", want: filepath.Join(home, "spectrum/db.sqlite")},
		{name: "env var", in: "$SPECTRUM_TEST_DIR/db.sqlite", want: "/srv/data/db.sqlite"},
		{name: "absolute", in: "/var/lib/spectrum.db", want: "/var/lib/spectrum.db"},
		{name: "tilde in middle", in: "/tmp/~user", want: "/tmp/~user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	d := DefaultConfig()
	assert.Equal(t, d.Analytics, cfg.Analytics)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.True(t, filepath.IsAbs(cfg.DatabasePath))
	assert.False(t, cfg.UseSnapshot)
	assert.False(t, cfg.TLS)
	assert.True(t, strings.HasSuffix(cfg.CertDir, filepath.Join("spectrum", "certs")))
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("database.path", ":memory:")
	v.Set("model.clusters", 6)
	v.Set("model.top_n", 10)
	v.Set("ingest.encoding", "utf8")
	v.Set("ingest.timezone", "Europe/London")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, 6, cfg.Analytics.Clusters)
	assert.Equal(t, 10, cfg.Analytics.TopN)

	opts, err := cfg.IngestOptions()
	require.NoError(t, err)
	assert.Equal(t, "utf8", opts.Encoding)
	assert.Equal(t, "Europe/London", opts.Location.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "zero clusters", key: "model.clusters", value: 0},
		{name: "negative top n", key: "model.top_n", value: -1},
		{name: "bad encoding", key: "ingest.encoding", value: "ebcdic"},
		{name: "bad timezone", key: "ingest.timezone", value: "Mars/Olympus"},
		{name: "bad log level", key: "logging.level", value: "loud"},
		{name: "bad log format", key: "logging.format", value: "xml"},
		{name: "empty database path", key: "database.path", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrConfiguration)
		})
	}
}
