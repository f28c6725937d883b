// File: confkit/discovery.go
package confkit

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoverOptions configures conventional config file discovery for an
// application name. Discovery produces up to three candidate paths
// (system, user, local) suitable for LocalOptions.
type DiscoverOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Environment variable that, when set, pins the local path explicitly
	EnvVar string

	// Whether to honor XDG base directories for the user tier
	UseXDG bool

	// Whether to search the current directory for the local tier
	UseCurrentDir bool
}

// DefaultDiscoverOptions returns sensible defaults for an app name.
func DefaultDiscoverOptions(appName string) DiscoverOptions {
	return DiscoverOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".yaml", ".yml", ".json"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discover resolves the first existing candidate per tier. Tiers with no
// existing file yield an empty string, which FromLocal skips.
func (o DiscoverOptions) Discover() (system, user, local string) {
	system = firstExisting(o.systemCandidates())
	user = firstExisting(o.userCandidates())
	local = o.localPath()
	return system, user, local
}

func (o DiscoverOptions) systemCandidates() []string {
	var paths []string
	dirs := []string{filepath.Join("/etc", o.Name), "/etc"}
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" && o.UseXDG {
		for _, dir := range filepath.SplitList(xdgDirs) {
			dirs = append(dirs, filepath.Join(dir, o.Name))
		}
	} else if o.UseXDG {
		dirs = append(dirs, filepath.Join("/etc/xdg", o.Name))
	}
	for _, dir := range dirs {
		for _, ext := range o.Extensions {
			paths = append(paths, filepath.Join(dir, o.Name+ext))
		}
	}
	return paths
}

func (o DiscoverOptions) userCandidates() []string {
	var paths []string
	if o.UseXDG {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			if home := os.Getenv("HOME"); home != "" {
				base = filepath.Join(home, ".config")
			}
		}
		if base != "" {
			for _, ext := range o.Extensions {
				paths = append(paths, filepath.Join(base, o.Name, o.Name+ext))
			}
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		for _, ext := range o.Extensions {
			paths = append(paths, filepath.Join(home, "."+o.Name+ext))
		}
	}
	return paths
}

func (o DiscoverOptions) localPath() string {
	// Explicit path via environment variable wins
	if o.EnvVar != "" {
		if path := os.Getenv(o.EnvVar); path != "" {
			return path
		}
	}
	if !o.UseCurrentDir {
		return ""
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	var candidates []string
	for _, ext := range o.Extensions {
		candidates = append(candidates,
			filepath.Join(cwd, "."+o.Name+ext),
			filepath.Join(cwd, o.Name+ext))
	}
	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
