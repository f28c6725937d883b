// File: confkit/builder.go
package confkit

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

// ValidatorFunc validates a fully built Configuration. It receives the
// loaded *Configuration and returns an error if validation fails.
type ValidatorFunc func(c *Configuration) error

// Builder provides a fluent interface for assembling configurations.
type Builder struct {
	defaults    []map[string]any
	system      string
	user        string
	local       string
	envPrefix   string
	envConvert  ConvertFunc
	envStructs  []any
	evalTimeout time.Duration
	validators  []ValidatorFunc
	err         error
}

// NewBuilder creates a new configuration builder.
func NewBuilder() *Builder {
	return &Builder{
		evalTimeout: DefaultEvalTimeout,
	}
}

// WithDefaults adds a defaults layer. The argument may be a Namespace, a
// plain nested map, or a tagged struct. Repeated calls layer onto the
// previous defaults: later layers win, maps merging deeply.
func (b *Builder) WithDefaults(defaults any) *Builder {
	var layer map[string]any
	switch v := defaults.(type) {
	case nil:
		return b
	case Namespace:
		layer = v.ToMap()
	case map[string]any:
		layer = NewNamespace(v).ToMap()
	default:
		ns, err := FromStruct(v)
		if err != nil {
			b.err = fmt.Errorf("failed to register defaults: %w", err)
			return b
		}
		layer = ns.ToMap()
	}
	b.defaults = append(b.defaults, layer)
	return b
}

// WithSystemFile sets the system-tier configuration file path.
func (b *Builder) WithSystemFile(path string) *Builder {
	b.system = path
	return b
}

// WithUserFile sets the user-tier configuration file path.
func (b *Builder) WithUserFile(path string) *Builder {
	b.user = path
	return b
}

// WithLocalFile sets the local-tier configuration file path.
func (b *Builder) WithLocalFile(path string) *Builder {
	b.local = path
	return b
}

// WithDiscovery resolves the three file tiers through conventional path
// discovery. Explicitly set paths are kept.
func (b *Builder) WithDiscovery(opts DiscoverOptions) *Builder {
	system, user, local := opts.Discover()
	if b.system == "" {
		b.system = system
	}
	if b.user == "" {
		b.user = user
	}
	if b.local == "" {
		b.local = local
	}
	return b
}

// WithEnvPrefix enables environment capture under the prefix as the
// highest-precedence source.
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.envPrefix = prefix
	return b
}

// WithEnvConvert overrides the converter applied to captured environment
// values.
func (b *Builder) WithEnvConvert(fn ConvertFunc) *Builder {
	b.envConvert = fn
	return b
}

// WithEnvStruct adds a tagged struct to be populated from the environment
// and layered into the env source.
func (b *Builder) WithEnvStruct(v any) *Builder {
	b.envStructs = append(b.envStructs, v)
	return b
}

// WithEvalTimeout bounds _eval command execution on the built
// configuration.
func (b *Builder) WithEvalTimeout(d time.Duration) *Builder {
	b.evalTimeout = d
	return b
}

// WithValidator adds a validation function that runs at the end of the
// build. Multiple validators execute in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build assembles the Configuration from all specified sources.
func (b *Builder) Build() (*Configuration, error) {
	if b.err != nil {
		return nil, b.err
	}

	defaults, err := b.mergedDefaults()
	if err != nil {
		return nil, err
	}

	cfg, err := FromLocal(LocalOptions{
		Default:    defaults,
		System:     b.system,
		User:       b.user,
		Local:      b.local,
		EnvPrefix:  b.envPrefix,
		EnvConvert: b.envConvert,
	})
	if err != nil {
		return nil, err
	}
	cfg.SetEvalTimeout(b.evalTimeout)

	for _, v := range b.envStructs {
		ns, err := EnvStruct(v)
		if err != nil {
			return nil, err
		}
		cfg.Extend("env", ns)
	}

	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Configuration {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the merged configuration into the
// provided target struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}
	if err := cfg.Scan("", target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return nil
}

// mergedDefaults collapses the accumulated default layers into one
// namespace, later layers overriding earlier ones.
func (b *Builder) mergedDefaults() (Namespace, error) {
	if len(b.defaults) == 0 {
		return nil, nil
	}
	combined := make(map[string]any)
	for _, layer := range b.defaults {
		if err := mergo.Merge(&combined, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge default layers: %w", err)
		}
	}
	return NewNamespace(combined), nil
}
