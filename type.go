// File: confkit/type.go
package confkit

import (
	"fmt"
	"strconv"
)

// Typed accessors over the merged view. Each resolves the dotted path
// through Get (so deferred _env / _eval variants apply) and converts the
// stored scalar. The tree only ever holds the canonical scalar set
// produced by normalization and coercion (string, int, int64, uint64,
// float64, bool, nil), so conversion is a small closed switch rather
// than reflection. Failed conversions wrap ErrTypeMismatch.

// String reads a string at the dotted path. Numeric and boolean values
// format to their canonical text; nil reads as the empty string.
func (c *Configuration) String(path string) (string, error) {
	val, err := c.Get(path)
	if err != nil {
		return "", err
	}
	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: cannot read %T at %q as string", ErrTypeMismatch, val, path)
}

// Int64 reads an integer at the dotted path. Strings parse with base
// auto-detection ("0xFF" reads as 255), floats truncate, booleans map to
// 0 and 1.
func (c *Configuration) Int64(path string) (int64, error) {
	val, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > uint64(1<<63-1) {
			return 0, fmt.Errorf("%w: %d at %q overflows int64", ErrTypeMismatch, v, path)
		}
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		if i, err := strconv.ParseInt(v, 0, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("%w: cannot parse %q at %q as int64", ErrTypeMismatch, v, path)
	}
	return 0, fmt.Errorf("%w: cannot read %T at %q as int64", ErrTypeMismatch, val, path)
}

// Bool reads a boolean at the dotted path. Strings parse through
// strconv.ParseBool; numbers read as zero / non-zero.
func (c *Configuration) Bool(path string) (bool, error) {
	val, err := c.Get(path)
	if err != nil {
		return false, err
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: cannot parse %q at %q as bool", ErrTypeMismatch, v, path)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: cannot read %T at %q as bool", ErrTypeMismatch, val, path)
}

// Float64 reads a float at the dotted path. Integers widen, strings
// parse, booleans map to 0 and 1.
func (c *Configuration) Float64(path string) (float64, error) {
	val, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot parse %q at %q as float64", ErrTypeMismatch, v, path)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: cannot read %T at %q as float64", ErrTypeMismatch, val, path)
}
