package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/tmux-quicktask/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a positive integer.
func PositiveIntValidator() Validator {
	return IntRangeValidator(1, -1)
}

// IntRangeValidator accepts integers in [lo, hi]. A negative hi means unbounded.
func IntRangeValidator(lo, hi int) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < lo || (hi >= 0 && n > hi) {
			bound := fmt.Sprintf(">= %d", lo)
			if hi >= 0 {
				bound = fmt.Sprintf("between %d and %d", lo, hi)
			}
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an integer %s, using default: %s", key, value, bound, defaultValue))
			return defaultValue, nil
		}
		return strconv.Itoa(n), nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		valueLower := strings.ToLower(value)
		if !allowed[valueLower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return valueLower, nil
	}
}

// BoolValidator returns a validator that normalizes and validates boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// SessionNameValidator rejects names tmux would misparse as targets.
func SessionNameValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		if strings.ContainsAny(value, ":. \t") {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': session names cannot contain ':', '.' or spaces; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

func initValidators() {
	RegisterValidator("hooks_async_timeout", PositiveIntValidator())
	RegisterValidator("logging_max_files", PositiveIntValidator())
	RegisterValidator("popup_width", PositiveIntValidator())
	RegisterValidator("popup_height", PositiveIntValidator())
	RegisterValidator("settings_appear_timeout_ms", PositiveIntValidator())
	RegisterValidator("top_bias", IntRangeValidator(0, 50))

	RegisterValidator("storage_backend", EnumValidator(map[string]bool{"json": true, "sqlite": true, "diskv": true}))
	RegisterValidator("status_format", EnumValidator(map[string]bool{"icon": true, "compact": true, "count-only": true}))
	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{"ignore": true, "warn": true, "abort": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}))

	RegisterValidator("root_session", SessionNameValidator())
	RegisterValidator("settings_session", SessionNameValidator())

	boolValidator := BoolValidator()
	for _, key := range []string{
		"status_click_enabled",
		"hooks_enabled",
		"hooks_async",
		"hooks_enabled_pre_add",
		"hooks_enabled_post_add",
		"hooks_enabled_post_complete",
		"hooks_enabled_post_delete",
		"hooks_enabled_post_show",
		"hooks_enabled_post_hide",
		"logging_enabled",
		"debug",
		"quiet",
	} {
		RegisterValidator(key, boolValidator)
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
