package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/trustedvehicles/vinspect/internal/logger"
)

// Credentials is the saved login state.
type Credentials struct {
	Email   string    `json:"email"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// FileTokens is a TokenProvider backed by credentials.json in the data
// directory.
type FileTokens struct {
	dataDir string
}

// NewFileTokens returns the token store for dataDir.
func NewFileTokens(dataDir string) *FileTokens {
	return &FileTokens{dataDir: dataDir}
}

func (f *FileTokens) path() string {
	return filepath.Join(f.dataDir, "credentials.json")
}

// Token returns the saved bearer token. Missing or unreadable credentials
// surface as ErrUnauthorized so callers prompt for login.
func (f *FileTokens) Token() (string, error) {
	data, err := os.ReadFile(f.path())
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: not logged in", ErrUnauthorized)
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		logger.Warn("Failed to parse credentials file: %v", err)
		return "", fmt.Errorf("%w: credentials unreadable", ErrUnauthorized)
	}
	if creds.Token == "" {
		return "", fmt.Errorf("%w: not logged in", ErrUnauthorized)
	}
	return creds.Token, nil
}

// Save writes credentials after a successful login. Creates the data
// directory if it doesn't exist.
func (f *FileTokens) Save(creds Credentials) error {
	if err := os.MkdirAll(f.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.WriteFile(f.path(), data, 0o600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	logger.Debug("Credentials saved to %s", f.path())
	return nil
}

// Clear removes saved credentials. Clearing when logged out succeeds.
func (f *FileTokens) Clear() error {
	err := os.Remove(f.path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials file: %w", err)
	}
	return nil
}
