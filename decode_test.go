// FILE: confkit/decode_test.go
package confkit_test

import (
	"testing"
	"time"

	"confkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverConfig struct {
	Host    string        `conf:"host"`
	Port    int           `conf:"port"`
	Timeout time.Duration `conf:"timeout"`
	Tags    []string      `conf:"tags"`
}

type appConfig struct {
	Debug  bool         `conf:"debug"`
	Server serverConfig `conf:"server"`
}

func TestNamespaceScan(t *testing.T) {
	ns := confkit.Namespace{
		"debug": true,
		"server": confkit.Namespace{
			"host":    "localhost",
			"port":    int64(8080),
			"timeout": "1m30s",
			"tags":    "a,b,c",
		},
	}

	var cfg appConfig
	require.NoError(t, ns.Scan(&cfg))

	assert.True(t, cfg.Debug)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Server.Tags)
}

func TestNamespaceScanErrors(t *testing.T) {
	ns := confkit.Namespace{"debug": true}

	t.Run("NonPointerTarget", func(t *testing.T) {
		var cfg appConfig
		err := ns.Scan(cfg)
		assert.Error(t, err)
	})

	t.Run("NilTarget", func(t *testing.T) {
		err := ns.Scan((*appConfig)(nil))
		assert.Error(t, err)
	})
}

func TestConfigurationScan(t *testing.T) {
	cfg := confkit.NewConfiguration(
		confkit.Source{Name: "default", Namespace: confkit.Namespace{
			"debug": false,
			"server": confkit.Namespace{
				"host": "localhost",
				"port": int64(8080),
			},
		}},
		confkit.Source{Name: "env", Namespace: confkit.Namespace{
			"server": confkit.Namespace{"port": "9090"},
		}},
	)

	t.Run("FullView", func(t *testing.T) {
		var target appConfig
		require.NoError(t, cfg.Scan("", &target))
		assert.Equal(t, "localhost", target.Server.Host)
		assert.Equal(t, 9090, target.Server.Port) // weakly typed from env string
	})

	t.Run("Section", func(t *testing.T) {
		var target serverConfig
		require.NoError(t, cfg.Scan("server", &target))
		assert.Equal(t, "localhost", target.Host)
		assert.Equal(t, 9090, target.Port)
	})

	t.Run("MissingSection", func(t *testing.T) {
		var target serverConfig
		err := cfg.Scan("nothing.here", &target)
		assert.ErrorIs(t, err, confkit.ErrNotFound)
	})

	t.Run("ScalarSection", func(t *testing.T) {
		var target serverConfig
		err := cfg.Scan("debug", &target)
		assert.ErrorIs(t, err, confkit.ErrTypeMismatch)
	})
}

func TestFromStruct(t *testing.T) {
	defaults := appConfig{
		Debug: true,
		Server: serverConfig{
			Host:    "localhost",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
	}

	ns, err := confkit.FromStruct(defaults)
	require.NoError(t, err)

	debug, err := ns.Lookup("debug")
	require.NoError(t, err)
	assert.Equal(t, true, debug)

	host, err := ns.Lookup("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	port, err := ns.Lookup("server.port")
	require.NoError(t, err)
	assert.EqualValues(t, 8080, port)
}
