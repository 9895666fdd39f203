package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

const saveExt = ".json"

// FileStorage keeps each save slot as <dir>/<slot>.json.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates the save directory if needed.
func NewFileStorage(dir string, logger *slog.Logger) (*FileStorage, error) {
	if dir == "" {
		dir = "./saves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStorage{dir: dir, logger: logger}, nil
}

func (f *FileStorage) path(slot string) string {
	return filepath.Join(f.dir, slot+saveExt)
}

// Ping checks the save directory is still there.
func (f *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save path %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

// SaveGame writes to a temp file and renames it over the slot, so a failed
// write never leaves a truncated save behind.
func (f *FileStorage) SaveGame(ctx context.Context, slot string, doc *state.SaveDocument) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("save document cannot be nil")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		f.logger.Error("Failed to marshal save", "slot", slot, "error", err)
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, slot+"-*.tmp")
	if err != nil {
		f.logger.Error("Failed to create temp save", "slot", slot, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		f.logger.Error("Failed to write save", "slot", slot, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := os.Rename(tmpName, f.path(slot)); err != nil {
		f.logger.Error("Failed to move save into place", "slot", slot, "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}

	f.logger.Debug("Game saved", "slot", slot, "path", f.path(slot))
	return nil
}

func (f *FileStorage) LoadGame(ctx context.Context, slot string) (*state.SaveDocument, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Warn("Save not found", "slot", slot)
			return nil, nil // Return nil for not found
		}
		f.logger.Error("Failed to read save", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to read save: %w", err)
	}

	doc, err := state.ParseSaveDocument(data)
	if err != nil {
		f.logger.Error("Failed to decode save", "slot", slot, "error", err)
		return nil, err
	}
	return doc, nil
}

func (f *FileStorage) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []storage.SaveInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	out := make([]storage.SaveInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != saveExt {
			continue
		}
		slot := strings.TrimSuffix(entry.Name(), saveExt)
		doc, err := f.LoadGame(ctx, slot)
		if err != nil || doc == nil {
			f.logger.Warn("Skipping unreadable save", "slot", slot, "error", err)
			continue
		}
		out = append(out, storage.Describe(slot, doc))
	}
	storage.SortSaves(out)
	return out, nil
}

func (f *FileStorage) DeleteSave(ctx context.Context, slot string) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	if err := os.Remove(f.path(slot)); err != nil && !os.IsNotExist(err) {
		f.logger.Error("Failed to delete save", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}
