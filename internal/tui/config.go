package tui

import (
	"github.com/Veraticus/petit-bac/internal/model"
	"github.com/Veraticus/petit-bac/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme      themes.Theme
	Categories []model.Category
	Letter     string
	Threshold  float64
	Width      int
	Height     int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		Categories: model.Categories(),
		Threshold:  0.70,
		Width:      80,
		Height:     24,
	}
}

// WithTheme sets the visual theme.
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

// WithLetter sets the round letter every word must start with.
func WithLetter(letter string) Option {
	return func(c *Config) {
		c.Letter = letter
	}
}

// WithThreshold sets the confidence below which accepted words are shown
// as low confidence.
func WithThreshold(threshold float64) Option {
	return func(c *Config) {
		if threshold > 0 && threshold <= 1 {
			c.Threshold = threshold
		}
	}
}

// WithCategories restricts the categories offered.
func WithCategories(categories []model.Category) Option {
	return func(c *Config) {
		if len(categories) > 0 {
			c.Categories = categories
		}
	}
}
