package tui

import (
	"github.com/Veraticus/shopper-spectrum/internal/analytics"
	"github.com/Veraticus/shopper-spectrum/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme  themes.Theme
	Core   *analytics.Core
	Width  int
	Height int
	TopN   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  100,
		Height: 30,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTopN sets how many recommendations are shown. Zero uses the core default.
func WithTopN(n int) Option {
	return func(c *Config) {
		c.TopN = n
	}
}
