package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/files"
)

type state struct {
	Message     string    `json:"message"`
	LastChecked time.Time `json:"lastChecked"`
	Version     string    `json:"version"`
}

// loadState loads the update check state from disk, returning defaults if it does not exist
func loadState(p string) (*state, error) {
	state := state{}

	exists, err := files.Exists(p)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &state, nil
	}
	text, err := os.ReadFile(p)
	if err != nil {
		console.Debugf("Failed to read %s: %s", p, err)
		return &state, nil
	}

	err = json.Unmarshal(text, &state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// writeState saves update check state to disk
func writeState(p string, s *state) error {
	bytes, err := json.MarshalIndent(s, "", " ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, bytes, 0o600)
}

func statePath() (string, error) {
	dir, err := homedir.Expand("~/.config/portablesource")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "update-state.json"), nil
}
