// File: confkit/decode.go
package confkit

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// tagName is the struct tag consulted when scanning namespaces into
// structs and when deriving namespaces from structs.
const tagName = "conf"

// Scan decodes the namespace into target, which must be a non-nil pointer
// to a struct or map. Fields map through `conf` tags; conversion is
// weakly typed (strings parse into numbers, durations, and slices).
func (ns Namespace) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(ns.ToMap()); err != nil {
		return fmt.Errorf("failed to decode namespace into %T: %w", target, err)
	}
	return nil
}

// Scan decodes the merged view, or the section under basePath when
// non-empty, into target.
func (c *Configuration) Scan(basePath string, target any) error {
	section := c.merged
	if basePath != "" {
		value, err := c.merged.Lookup(basePath)
		if err != nil {
			return err
		}
		sub, isSection := asNamespace(value)
		if !isSection {
			return fmt.Errorf("%w: path %q does not refer to a section (got %T)", ErrTypeMismatch, basePath, value)
		}
		section = sub
	}
	return section.Scan(target)
}

// FromStruct derives a Namespace from a struct's fields, using `conf`
// tags for key names. Nested structs become nested sections. Used to
// express typed defaults as a source.
func FromStruct(v any) (Namespace, error) {
	raw := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: tagName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("failed to convert %T to namespace: %w", v, err)
	}
	return NewNamespace(raw), nil
}
