package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Validator validates and normalizes a configuration value.
type Validator func(key Key, value string) (normalized string, err error)

var validators = map[Key]Validator{}

func init() {
	initValidators()
}

func registerValidator(key Key, validator Validator) {
	if _, exists := validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	validators[key] = validator
}

func getValidator(key Key) Validator {
	return validators[key]
}

// BoolValidator accepts 1/true/yes/on and 0/false/no/off.
func BoolValidator() Validator {
	return func(key Key, value string) (string, error) {
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			return "", fmt.Errorf("%w: %s must be one of 1, true, yes, on, 0, false, no, off; got '%s'", ErrInvalidValue, key, value)
		}
		return normalized, nil
	}
}

// EnumValidator accepts one of the allowed values, case-insensitively.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key Key, value string) (string, error) {
		valueLower := strings.ToLower(strings.TrimSpace(value))
		if !allowed[valueLower] {
			return "", fmt.Errorf("%w: %s must be one of: %s; got '%s'", ErrInvalidValue, key, allowedValues(allowed), value)
		}
		return valueLower, nil
	}
}

// PathValidator accepts non-empty absolute paths and cleans them.
func PathValidator() Validator {
	return func(key Key, value string) (string, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidValue, key)
		}
		if !filepath.IsAbs(value) {
			return "", fmt.Errorf("%w: %s must be an absolute path; got '%s'", ErrInvalidValue, key, value)
		}
		return filepath.Clean(value), nil
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

// ParseBool is the lenient boolean parser shared with environment lookups.
func ParseBool(val string, defaultValue bool) bool {
	switch normalizeBool(val) {
	case "true":
		return true
	case "false":
		return false
	default:
		return defaultValue
	}
}

// Themes lists the accepted theme names.
func Themes() []string {
	return []string{ThemeDefault, ThemeDark, ThemeLight, ThemeMono}
}

func initValidators() {
	pathValidator := PathValidator()
	registerValidator(KeyPoolDir, pathValidator)
	registerValidator(KeySnapshotsDir, pathValidator)

	boolValidator := BoolValidator()
	registerValidator(KeyAutoCleanup, boolValidator)
	registerValidator(KeyConfirmActions, boolValidator)
	registerValidator(KeyShowTimestamps, boolValidator)

	themes := make(map[string]bool)
	for _, t := range Themes() {
		themes[t] = true
	}
	registerValidator(KeyTheme, EnumValidator(themes))
}

// allowedValues returns a comma-separated string of allowed values.
func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
