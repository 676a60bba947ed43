package lint

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"
)

// Options holds rule-specific configuration.
type Options map[string]any

// DecodeOptions decodes opts into a typed options struct. Fields use the
// koanf tag so the struct doubles as documentation of the config file keys.
func DecodeOptions(opts Options, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "koanf",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(opts)); err != nil {
		return fmt.Errorf("decode rule options: %w", err)
	}
	return nil
}

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts Options, key string, defaultVal T) T {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetStringOption extracts a string option.
func GetStringOption(opts Options, key string, defaultVal string) string {
	return GetOption(opts, key, defaultVal)
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts Options, key string, defaultVal []string) []string {
	if opts == nil {
		return defaultVal
	}
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		return []string{s}
	default:
		return defaultVal
	}
}

// SeverityOption is the option key, accepted by every rule, that overrides
// the rule's default severity.
const SeverityOption = "severity"

// ValidateOptions checks opts against the rule's ConfigKeys and its Validate
// hook. Errors wrap ErrInvalidOptions.
func (d RuleDef) ValidateOptions(opts Options) error {
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		if key != SeverityOption && !slices.Contains(d.ConfigKeys, key) {
			return fmt.Errorf("%w: rule %s: unknown option %q", ErrInvalidOptions, d.ID, key)
		}
	}
	if raw, ok := opts[SeverityOption]; ok {
		name, _ := raw.(string)
		if _, ok := ParseSeverity(name); !ok {
			return fmt.Errorf("%w: rule %s: unknown severity %v", ErrInvalidOptions, d.ID, raw)
		}
	}
	if d.Validate == nil {
		return nil
	}
	if err := d.Validate(opts); err != nil {
		return fmt.Errorf("%w: rule %s: %w", ErrInvalidOptions, d.ID, err)
	}
	return nil
}

// SeverityFor returns the rule severity after the override in opts, if any.
func (d RuleDef) SeverityFor(opts Options) Severity {
	name, ok := opts[SeverityOption].(string)
	if !ok {
		return d.Severity
	}
	if sev, ok := ParseSeverity(name); ok {
		return sev
	}
	return d.Severity
}

// DecodedBy returns a Validate hook that decodes opts into a fresh T.
func DecodedBy[T any]() func(Options) error {
	return func(opts Options) error {
		var out T
		return DecodeOptions(opts, &out)
	}
}

// MustDecodeOptions is DecodeOptions for checks whose options were already
// accepted by ValidateOptions. It panics on error.
func MustDecodeOptions(opts Options, out any) {
	if err := DecodeOptions(opts, out); err != nil {
		panic(err)
	}
}

// StringOptions returns a Validate hook requiring each present key to hold a
// string.
func StringOptions(keys ...string) func(Options) error {
	return func(opts Options) error {
		for _, key := range keys {
			if v, ok := opts[key]; ok {
				if _, isString := v.(string); !isString {
					return fmt.Errorf("option %q: want a string, got %T", key, v)
				}
			}
		}
		return nil
	}
}

// StringSliceOptions returns a Validate hook requiring each present key to
// hold a string or a list of strings.
func StringSliceOptions(keys ...string) func(Options) error {
	return func(opts Options) error {
		for _, key := range keys {
			v, ok := opts[key]
			if !ok {
				continue
			}
			switch s := v.(type) {
			case string, []string:
			case []any:
				for i, item := range s {
					if _, isString := item.(string); !isString {
						return fmt.Errorf("option %q: item %d: want a string, got %T", key, i, item)
					}
				}
			default:
				return fmt.Errorf("option %q: want a list of strings, got %T", key, v)
			}
		}
		return nil
	}
}
