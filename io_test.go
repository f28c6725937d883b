// FILE: confkit/io_test.go
package confkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"confkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile(t *testing.T) {
	// The same document in all three formats must load to the same tree.
	documents := map[string]string{
		"config.toml": "debug = true\n\n[server]\nhost = \"localhost\"\nport = 8080\n",
		"config.yaml": "debug: true\nserver:\n  host: localhost\n  port: 8080\n",
		"config.json": `{"debug": true, "server": {"host": "localhost", "port": 8080}}`,
	}

	for name, body := range documents {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			ns, err := confkit.FromFile(path)
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
		})
	}
}

func TestFromFileErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := confkit.FromFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("MalformedTOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("key = [unclosed"), 0644))

		_, err := confkit.FromFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, confkit.ErrParse)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"key": `), 0644))

		_, err := confkit.FromFile(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, confkit.ErrParse)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.ini")
		require.NoError(t, os.WriteFile(path, []byte("\x00\x01binary"), 0644))

		_, err := confkit.FromFile(path)
		assert.ErrorIs(t, err, confkit.ErrParse)
	})
}

func TestContentDetection(t *testing.T) {
	t.Run("JSONWithoutExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.conf")
		require.NoError(t, os.WriteFile(path, []byte(`{"port": 8080}`), 0644))

		ns, err := confkit.FromFile(path)
		require.NoError(t, err)
		port, err := ns.Lookup("port")
		require.NoError(t, err)
		assert.EqualValues(t, 8080, port)
	})

	t.Run("TOMLWithoutExtension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.conf")
		require.NoError(t, os.WriteFile(path, []byte("port = 8080\n"), 0644))

		ns, err := confkit.FromFile(path)
		require.NoError(t, err)
		port, err := ns.Lookup("port")
		require.NoError(t, err)
		assert.EqualValues(t, 8080, port)
	})

	t.Run("ExplicitFormatWins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.txt")
		require.NoError(t, os.WriteFile(path, []byte("host: remote\n"), 0644))

		ns, err := confkit.FromFileFormat(path, "yaml")
		require.NoError(t, err)
		host, err := ns.Lookup("host")
		require.NoError(t, err)
		assert.Equal(t, "remote", host)
	})
}

func TestToFileRoundTrip(t *testing.T) {
	ns := confkit.Namespace{
		"debug": true,
		"server": confkit.Namespace{
			"host": "localhost",
			"port": int64(8080),
		},
	}

	for _, name := range []string{"out.toml", "out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, ns.ToFile(path))

			loaded, err := confkit.FromFile(path)
			require.NoError(t, err)

			debug, err := loaded.Lookup("debug")
			require.NoError(t, err)
			assert.Equal(t, true, debug)

			host, err := loaded.Lookup("server.host")
			require.NoError(t, err)
			assert.Equal(t, "localhost", host)

			port, err := loaded.Lookup("server.port")
			require.NoError(t, err)
			assert.EqualValues(t, 8080, port)
		})
	}
}

func TestToFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.toml")
	ns := confkit.Namespace{"key": "value"}

	require.NoError(t, ns.ToFile(path))

	loaded, err := confkit.FromFile(path)
	require.NoError(t, err)
	val, err := loaded.Lookup("key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestToFileUnsupportedExtension(t *testing.T) {
	ns := confkit.Namespace{"key": "value"}
	err := ns.ToFile(filepath.Join(t.TempDir(), "config.xml"))
	assert.Error(t, err)
}
