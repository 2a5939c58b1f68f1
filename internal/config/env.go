package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MZEDIT_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

type envVar struct {
	name  string
	apply func(c *Config, val string) error
}

func envInt(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, val string) error {
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func envBool(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func envString(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, val string) error {
		*dst(c) = val
		return nil
	}
}

var envVars = []envVar{
	{"EDITOR_INDENT_SIZE", envInt(func(c *Config) *int { return &c.Editor.IndentSize })},
	{"EDITOR_USE_TABS", envBool(func(c *Config) *bool { return &c.Editor.UseTabs })},
	{"EDITOR_DARK_MODE", envBool(func(c *Config) *bool { return &c.Editor.DarkMode })},
	{"EDITOR_DEBOUNCE_MS", envInt(func(c *Config) *int { return &c.Editor.DebounceMillis })},
	{"EDITOR_SHOW_HEAT", envBool(func(c *Config) *bool { return &c.Editor.ShowHeat })},
	{"THEME", envString(func(c *Config) *string { return &c.Theme.Name })},
	{"LOG_LEVEL", envString(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FILE", envString(func(c *Config) *string { return &c.Log.File })},
	{"COMPILER", envString(func(c *Config) *string { return &c.Compiler.Path })},
}

// ApplyEnv overrides settings from MZEDIT_* variables. Every variable is
// applied; the first malformed one is reported.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	var first error
	for _, v := range envVars {
		name := EnvPrefix + v.name
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := v.apply(cfg, val); err != nil && first == nil {
			first = fmt.Errorf("%w: %s=%q", ErrInvalidEnv, name, val)
		}
	}
	return first
}

// EnvNames lists the recognized environment variables.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, v := range envVars {
		names[i] = EnvPrefix + v.name
	}
	return names
}
