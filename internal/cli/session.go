package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Session pins a stable sender id so repeated gdx invocations look like one
// conversation to the bot.
type Session struct {
	SenderID string `json:"sender_id"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".gdx")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func sessionPath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoadOrCreateSession returns the stored session, minting one on first use.
func LoadOrCreateSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	body, err := os.ReadFile(path)
	if err == nil {
		var s Session
		if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s.SenderID) != "" {
			return s, nil
		}
	}

	s := Session{SenderID: uuid.NewString()}
	if err := saveSession(path, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func saveSession(path string, s Session) error {
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession drops the stored sender id.
func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
