package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Session is the local state restored between runs: who is journaling and
// which account is active. It is never synchronized to the store.
type Session struct {
	OwnerID          string `yaml:"owner_id"`
	CurrentAccountID string `yaml:"current_account_id"`
}

// LoadSession reads the session file at path. A missing file yields an
// empty session.
func LoadSession(path string) (Session, error) {
	var s Session
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read session: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, nil
}

// SaveSession writes s to path, creating its directory.
func SaveSession(path string, s Session) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
