package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trustedvehicles/vinspect/internal/api"
	"github.com/trustedvehicles/vinspect/internal/logger"
)

var loginFlags struct {
	email    string
	password string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the marketplace backend",
	Long: `Authenticate against the marketplace backend and save the bearer token.

The token is stored in the data directory and used by every other command.
Email and password are prompted for unless passed as flags.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		if err := api.NewFileTokens(cfg.DataDir).Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.email, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginFlags.password, "password", "p", "", "Account password (prompted if omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, client, err := setup()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	email := loginFlags.email
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password := loginFlags.password
	if password == "" {
		fmt.Print("Password: ")
		if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
			raw, err := term.ReadPassword(fd)
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimSpace(string(raw))
		} else {
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimSpace(line)
		}
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	token, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	tokens := api.NewFileTokens(cfg.DataDir)
	if err := tokens.Save(api.Credentials{
		Email:   email,
		Token:   token,
		SavedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	logger.Info("Logged in as %s", email)
	fmt.Printf("Logged in as %s.\n", email)
	return nil
}
