// Package theme defines the color palette for the inspection TUI.
package theme

import "sync"

// Theme defines the colors used across the wizard.
type Theme struct {
	Name string

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Surfaces
	BgSurface string
	BgFocus   string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	BorderDefault string
}

var (
	mu      sync.RWMutex
	current = mocha()
)

// mocha is the default palette, Catppuccin Mocha.
func mocha() *Theme {
	return &Theme{
		Name:          "mocha",
		Primary:       "#b4befe",
		Secondary:     "#89b4fa",
		FgMuted:       "#6c7086",
		FgSubtle:      "#a6adc8",
		FgBase:        "#cdd6f4",
		FgBright:      "#ffffff",
		BgSurface:     "#313244",
		BgFocus:       "#45475a",
		Success:       "#a6e3a1",
		Warning:       "#f9e2af",
		Error:         "#f38ba8",
		Info:          "#89dceb",
		BorderDefault: "#45475a",
	}
}

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// StatusColor maps a checkpoint status string to its display color.
func (t *Theme) StatusColor(status string) string {
	switch status {
	case "Issue":
		return t.Error
	case "NA":
		return t.FgMuted
	default:
		return t.Success
	}
}
