// FILE: confkit/builder_test.go
package confkit_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"confkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBasic(t *testing.T) {
	cfg, err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{
			"server": confkit.Namespace{"host": "localhost", "port": int64(8080)},
		}).
		Build()
	require.NoError(t, err)

	host, err := cfg.String("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
}

func TestBuilderDefaultsLayering(t *testing.T) {
	// Later defaults layers override earlier ones, merging deeply.
	cfg, err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{
			"server": confkit.Namespace{"host": "localhost", "port": int64(8080)},
		}).
		WithDefaults(confkit.Namespace{
			"server": confkit.Namespace{"port": int64(9090)},
			"debug":  true,
		}).
		Build()
	require.NoError(t, err)

	host, err := cfg.String("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	port, err := cfg.Int64("server.port")
	require.NoError(t, err)
	assert.Equal(t, int64(9090), port)

	debug, err := cfg.Bool("debug")
	require.NoError(t, err)
	assert.True(t, debug)
}

func TestBuilderStructDefaults(t *testing.T) {
	var defaults appConfig
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080

	cfg, err := confkit.NewBuilder().
		WithDefaults(defaults).
		Build()
	require.NoError(t, err)

	host, err := cfg.String("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)
}

func TestBuilderFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()

	userFile := filepath.Join(dir, "user.toml")
	require.NoError(t, os.WriteFile(userFile, []byte("[server]\nport = 9090\n"), 0644))

	localFile := filepath.Join(dir, "local.yaml")
	require.NoError(t, os.WriteFile(localFile, []byte("server:\n  host: local-host\n"), 0644))

	t.Setenv("BUILDAPP_SERVER_PORT", "7070")

	cfg, err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{
			"server": confkit.Namespace{"host": "localhost", "port": int64(8080), "tls": false},
		}).
		WithUserFile(userFile).
		WithLocalFile(localFile).
		WithEnvPrefix("BUILDAPP").
		Build()
	require.NoError(t, err)

	host, err := cfg.String("server.host")
	require.NoError(t, err)
	assert.Equal(t, "local-host", host)

	port, err := cfg.Int64("server.port")
	require.NoError(t, err)
	assert.Equal(t, int64(7070), port)

	tls, err := cfg.Bool("server.tls")
	require.NoError(t, err)
	assert.False(t, tls)

	winner, err := cfg.Which("server.port")
	require.NoError(t, err)
	assert.Equal(t, "env", winner)
}

func TestBuilderValidator(t *testing.T) {
	t.Run("Passing", func(t *testing.T) {
		_, err := confkit.NewBuilder().
			WithDefaults(confkit.Namespace{"port": int64(8080)}).
			WithValidator(func(c *confkit.Configuration) error {
				port, err := c.Int64("port")
				if err != nil {
					return err
				}
				if port < 1024 {
					return fmt.Errorf("port %d is privileged", port)
				}
				return nil
			}).
			Build()
		assert.NoError(t, err)
	})

	t.Run("Failing", func(t *testing.T) {
		_, err := confkit.NewBuilder().
			WithDefaults(confkit.Namespace{"port": int64(80)}).
			WithValidator(func(c *confkit.Configuration) error {
				port, _ := c.Int64("port")
				if port < 1024 {
					return fmt.Errorf("port %d is privileged", port)
				}
				return nil
			}).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestBuilderEnvStruct(t *testing.T) {
	type dbEnv struct {
		Host string `env:"BUILDERENV_DB_HOST" conf:"host"`
	}

	t.Setenv("BUILDERENV_DB_HOST", "db.internal")

	cfg, err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{"database": confkit.Namespace{"host": "localhost"}}).
		WithEnvStruct(&struct {
			Database dbEnv `conf:"database"`
		}{}).
		Build()
	require.NoError(t, err)

	host, err := cfg.String("database.host")
	require.NoError(t, err)
	assert.Equal(t, "db.internal", host)

	winner, err := cfg.Which("database.host")
	require.NoError(t, err)
	assert.Equal(t, "env", winner)
}

func TestBuilderEvalTimeout(t *testing.T) {
	cfg, err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{"slow_eval": "sleep 5"}).
		WithEvalTimeout(50 * time.Millisecond).
		Build()
	require.NoError(t, err)

	_, err = cfg.Get("slow")
	assert.ErrorIs(t, err, confkit.ErrResolution)
}

func TestBuildAndScan(t *testing.T) {
	t.Setenv("SCANAPP_SERVER_PORT", "9090")

	var target appConfig
	err := confkit.NewBuilder().
		WithDefaults(confkit.Namespace{
			"server": confkit.Namespace{"host": "localhost", "port": int64(8080)},
		}).
		WithEnvPrefix("SCANAPP").
		BuildAndScan(&target)
	require.NoError(t, err)

	assert.Equal(t, "localhost", target.Server.Host)
	assert.Equal(t, 9090, target.Server.Port)
}

func TestMustBuildPanics(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("not [valid"), 0644))

	assert.Panics(t, func() {
		confkit.NewBuilder().WithLocalFile(bad).MustBuild()
	})
}
