// File: confkit/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"confkit"
)

// AppConfig is the typed shape of the demo application's configuration.
type AppConfig struct {
	Server struct {
		Host     string `conf:"host"`
		Port     int64  `conf:"port"`
		LogLevel string `conf:"log_level"`
	} `conf:"server"`
	Database struct {
		URL      string `conf:"url"`
		Password string `conf:"password"`
	} `conf:"database"`
}

func main() {
	dir, err := os.MkdirTemp("", "confkit-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// A user-tier file overriding one value and deferring another to the
	// environment.
	userFile := filepath.Join(dir, "app.toml")
	userNS := confkit.Namespace{
		"server": confkit.Namespace{"port": int64(9090)},
		"database": confkit.Namespace{
			"password_env": "APP_DB_PASSWORD",
		},
	}
	if err := userNS.ToFile(userFile); err != nil {
		log.Fatalf("write user file: %v", err)
	}

	os.Setenv("APP_SERVER_HOST", "0.0.0.0")
	os.Setenv("APP_DB_PASSWORD", "hunter2")
	defer os.Unsetenv("APP_SERVER_HOST")
	defer os.Unsetenv("APP_DB_PASSWORD")

	var defaults AppConfig
	defaults.Server.Host = "localhost"
	defaults.Server.Port = 8080
	defaults.Server.LogLevel = "info"
	defaults.Database.URL = "postgres://localhost/app"

	cfg, err := confkit.NewBuilder().
		WithDefaults(defaults).
		WithUserFile(userFile).
		WithEnvPrefix("APP").
		WithValidator(func(c *confkit.Configuration) error {
			port, err := c.Int64("server.port")
			if err != nil {
				return err
			}
			if port < 1024 || port > 65535 {
				return fmt.Errorf("port %d outside range 1024-65535", port)
			}
			return nil
		}).
		Build()
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	host, _ := cfg.String("server.host")       // environment
	port, _ := cfg.Int64("server.port")        // user file
	level, _ := cfg.String("server.log_level") // default
	pass, _ := cfg.String("database.password") // deferred _env expansion

	fmt.Printf("host=%s port=%d log_level=%s password=%s\n", host, port, level, pass)

	for _, path := range []string{"server.port", "server.host"} {
		winner, _ := cfg.Which(path)
		fmt.Printf("%-18s defined by %v, winner %q\n", path, cfg.Duplicates(path), winner)
	}
}
