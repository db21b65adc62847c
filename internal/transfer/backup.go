package transfer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/sandeepkv93/taskdash/internal/storage"
)

// Backup is the full state of one user plus the moment it was taken.
type Backup struct {
	storage.State
	ExportDate time.Time `json:"exportDate"`
}

func BackupFileName(userKey string, now time.Time) string {
	return fmt.Sprintf("taskdash_backup_%s_%s.json", userKey, now.Format("2006-01-02"))
}

// WriteBackup stores state as indented JSON in dir and returns the path.
func WriteBackup(fs afero.Fs, dir, userKey string, state storage.State, now time.Time) (string, error) {
	data, err := json.MarshalIndent(Backup{State: state, ExportDate: now}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, BackupFileName(userKey, now))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// ReadBackup decodes a file written by WriteBackup. Collections missing from
// the file keep their defaults.
func ReadBackup(fs afero.Fs, path string) (Backup, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Backup{}, fmt.Errorf("read backup: %w", err)
	}
	b := Backup{State: storage.NewState()}
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("decode backup: %w", err)
	}
	return b, nil
}
