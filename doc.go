// File: confkit/doc.go

// Package confkit provides hierarchical configuration management for
// command-line applications: recursive namespaces with depth-first merge
// semantics, multi-source layering with defined precedence, and deferred
// value expansion from the environment or shell commands.
//
// Features:
//   - Namespace: nested string-keyed mapping with depth-first merge
//   - Configuration: ordered named sources with a derived merged view
//   - Provenance queries (Which, Duplicates, Whereis)
//   - Deferred _env / _eval expansion, re-evaluated on every access
//   - TOML, YAML, and JSON file loading with format detection
//   - Environment capture with prefix convention and round-trip flatten
//   - Struct decode via mapstructure and typed accessors
//   - Builder pattern and conventional file discovery
//
// Quick Start:
//
//	type Defaults struct {
//	    Server struct {
//	        Host string `conf:"host"`
//	        Port int    `conf:"port"`
//	    } `conf:"server"`
//	}
//
//	var defaults Defaults
//	defaults.Server.Host = "localhost"
//	defaults.Server.Port = 8080
//
//	cfg, err := confkit.NewBuilder().
//	    WithDefaults(defaults).
//	    WithUserFile(os.ExpandEnv("$HOME/.myapp.toml")).
//	    WithLocalFile("myapp.toml").
//	    WithEnvPrefix("MYAPP").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.String("server.host")
//	port, _ := cfg.Int64("server.port")
//
// Precedence (lowest to highest): default, system, user, local, env,
// then direct updates (the "_" layer).
//
// Deferred values: a key "password_env" holding "DB_PASS" resolves
// cfg.Get("password") from the DB_PASS environment variable at access
// time; "password_eval" holding a shell command resolves from the
// command's trimmed stdout. Expansion applies at every nesting depth and
// is never cached.
//
// Concurrency: a Configuration performs no internal locking. Sources are
// copied on entry and the merged view is recomputed synchronously on
// mutation; callers sharing a Configuration across goroutines must
// serialize access themselves.
package confkit
