package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/config"
	"github.com/trustedvehicles/vinspect/internal/logger"
	"github.com/trustedvehicles/vinspect/internal/tui/theme"
)

const (
	logoText1 = "█░█ █ █▄░█ █▀ █▀█ █▀▀ █▀▀ ▀█▀"
	logoText2 = "▀▄▀ █ █░▀█ ▄█ █▀▀ ██▄ █▄▄ ░█░"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vinspect",
	Short: "Vehicle condition report wizard for field inspectors",
}

// renderLogo colors the banner with the active theme
func renderLogo() string {
	t := theme.Current()
	line1 := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Render(logoText1)
	line2 := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Render(logoText2)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

vinspect files vehicle condition reports from the terminal. An eight step
wizard walks the inspector through vehicle details, exterior, interior,
engine, steering, air conditioning, and the photo gallery, then submits
everything to the marketplace backend in one request. Work in progress is
autosaved locally via embedded NATS JetStream and survives restarts.`

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
}

// setup loads configuration, applies it to the logger, and builds the API
// client. Every subcommand starts here.
func setup() (*config.Config, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
		logger.Default.SetLevel(level)
	}
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger.Default.SetOutput(f)
		} else {
			logger.Warn("Failed to open log file %s: %v", cfg.LogFile, err)
		}
	}

	tokens := api.NewFileTokens(cfg.DataDir)
	client := api.NewClient(cfg.APIBaseURL, tokens)
	return cfg, client, nil
}
