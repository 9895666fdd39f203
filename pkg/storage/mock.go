package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[string]*state.SaveDocument
	pingError error
	saveError error
	loadError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[string]*state.SaveDocument),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes SaveGame fail with err
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError makes LoadGame fail with err
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveGame stores a copy of the document
func (m *MockStorage) SaveGame(ctx context.Context, slot string, doc *state.SaveDocument) error {
	if doc == nil {
		return errors.New("save document cannot be nil")
	}
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.saves[slot] = state.NewSaveDocument(doc.GameState, doc.PlayerCharacter, doc.Timestamp)
	return nil
}

// LoadGame returns a copy of the stored document, or nil when not found
func (m *MockStorage) LoadGame(ctx context.Context, slot string) (*state.SaveDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	doc, exists := m.saves[slot]
	if !exists {
		return nil, nil
	}
	return state.NewSaveDocument(doc.GameState, doc.PlayerCharacter, doc.Timestamp), nil
}

// ListSaves lists stored slots, newest first
func (m *MockStorage) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SaveInfo, 0, len(m.saves))
	for slot, doc := range m.saves {
		out = append(out, Describe(slot, doc))
	}
	SortSaves(out)
	return out, nil
}

// DeleteSave removes a slot
func (m *MockStorage) DeleteSave(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, slot)
	return nil
}

// SortSaves orders saves newest first, then by slot name.
func SortSaves(saves []SaveInfo) {
	sort.Slice(saves, func(i, j int) bool {
		if !saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Timestamp.After(saves[j].Timestamp)
		}
		return saves[i].Slot < saves[j].Slot
	})
}
