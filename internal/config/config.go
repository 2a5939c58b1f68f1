package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/mzedit/internal/engine/indent"
)

// Config is the complete editor configuration.
type Config struct {
	Editor   EditorConfig      `toml:"editor"`
	Theme    ThemeConfig       `toml:"theme"`
	Log      LogConfig         `toml:"log"`
	Compiler CompilerConfig    `toml:"compiler"`
	Keys     map[string]string `toml:"keys"`
}

// EditorConfig holds editing and display settings.
type EditorConfig struct {
	IndentSize           int  `toml:"indent_size"`
	UseTabs              bool `toml:"use_tabs"`
	DarkMode             bool `toml:"dark_mode"`
	DebounceMillis       int  `toml:"debounce_ms"`
	HighlightCurrentLine bool `toml:"highlight_current_line"`
	LineNumbers          bool `toml:"line_numbers"`
	ShowHeat             bool `toml:"show_heat"`
}

// ThemeConfig selects the color theme. Path names a YAML theme file
// that is registered before Name is looked up.
type ThemeConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// LogConfig configures logging. An empty File logs to stderr from the
// command line tools and nowhere from the terminal view.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// CompilerConfig locates the MiniZinc compiler used for checking.
type CompilerConfig struct {
	Path           string `toml:"path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			IndentSize:           2,
			UseTabs:              false,
			DarkMode:             false,
			DebounceMillis:       500,
			HighlightCurrentLine: true,
			LineNumbers:          true,
			ShowHeat:             true,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Log: LogConfig{
			Level: "info",
		},
		Compiler: CompilerConfig{
			Path:           "minizinc",
			TimeoutSeconds: 30,
		},
	}
}

// DefaultPath returns the user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".mzedit", "config.toml")
	}
	return filepath.Join(dir, "mzedit", "config.toml")
}

// Validate checks settings that have no usable interpretation.
func (c Config) Validate() error {
	if c.Editor.IndentSize < 1 {
		return &ValidationError{Path: "editor.indent_size", Value: c.Editor.IndentSize, Err: ErrInvalidIndentSize}
	}
	if c.Editor.DebounceMillis < 0 {
		return &ValidationError{Path: "editor.debounce_ms", Value: c.Editor.DebounceMillis, Err: ErrInvalidDebounce}
	}
	return nil
}

// Indent returns the indentation settings.
func (c Config) Indent() indent.Config {
	return indent.Config{IndentSize: c.Editor.IndentSize, UseTabs: c.Editor.UseTabs}
}

// DebounceDelay returns the settle delay.
func (c Config) DebounceDelay() time.Duration {
	return time.Duration(c.Editor.DebounceMillis) * time.Millisecond
}

// CompilerTimeout returns the compiler run limit, zero for the default.
func (c Config) CompilerTimeout() time.Duration {
	return time.Duration(max(c.Compiler.TimeoutSeconds, 0)) * time.Second
}
