// File: confkit/io.go
package confkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FromFile loads a namespace from a structured document. The format is
// inferred from the file extension, falling back to content detection for
// unknown extensions.
func FromFile(path string) (Namespace, error) {
	return FromFileFormat(path, "")
}

// FromFileFormat loads a namespace using an explicit format ("toml",
// "yaml", or "json"). An empty format defers to detection.
func FromFileFormat(path, format string) (Namespace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return parseDocument(data, format, path)
}

// fromFileOptional loads a namespace, treating a missing file as an
// expected condition rather than an error.
func fromFileOptional(path string) (Namespace, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	ns, err := parseDocument(data, "", path)
	if err != nil {
		return nil, false, err
	}
	return ns, true, nil
}

// parseDocument decodes raw bytes into a Namespace.
func parseDocument(data []byte, format, path string) (Namespace, error) {
	if format == "" {
		format = detectFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
			if format == "" {
				return nil, fmt.Errorf("%w: unable to determine format of %q", ErrParse, path)
			}
		}
	}

	raw := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: TOML file %q: %w", ErrParse, path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: JSON file %q: %w", ErrParse, path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: YAML file %q: %w", ErrParse, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q for file %q", ErrParse, format, path)
	}

	return NewNamespace(raw), nil
}

// ToFile writes the namespace to a local file, format chosen by
// extension. The write is atomic: a temp file in the target directory is
// renamed over the destination.
func (ns Namespace) ToFile(path string) error {
	format := detectFormat(path)
	if format == "" {
		return fmt.Errorf("unsupported file extension for %q", path)
	}
	return ns.ToFileFormat(path, format)
}

// ToFileFormat writes the namespace using an explicit format.
func (ns Namespace) ToFileFormat(path, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "toml":
		var buf bytes.Buffer
		encoder := toml.NewEncoder(&buf)
		if err = encoder.Encode(ns.ToMap()); err == nil {
			data = buf.Bytes()
		}
	case "json":
		data, err = json.MarshalIndent(ns.ToMap(), "", "    ")
	case "yaml":
		data, err = yaml.Marshal(ns.ToMap())
	default:
		return fmt.Errorf("unsupported format %q for file %q", format, path)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal namespace to %s: %w", format, err)
	}

	return atomicWriteFile(path, data)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// detectFormat determines format from file extension
func detectFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try TOML before YAML: YAML accepts nearly any plain text
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}
