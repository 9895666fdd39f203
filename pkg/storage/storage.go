package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
)

// DefaultSlot is the slot used when the player does not name one.
const DefaultSlot = "dragonlance-save"

// Storage defines a unified interface for save game persistence.
// LoadGame returns nil, nil when the slot is empty.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Save slots
	SaveGame(ctx context.Context, slot string, doc *state.SaveDocument) error
	LoadGame(ctx context.Context, slot string) (*state.SaveDocument, error)
	ListSaves(ctx context.Context) ([]SaveInfo, error)
	DeleteSave(ctx context.Context, slot string) error
}

// SaveInfo summarizes a save slot for listings.
type SaveInfo struct {
	Slot      string    `json:"slot"`
	Timestamp time.Time `json:"timestamp"`
	EntryID   string    `json:"entry_id"`
	Name      string    `json:"name,omitempty"`
}

// Describe builds the listing entry for a document.
func Describe(slot string, doc *state.SaveDocument) SaveInfo {
	info := SaveInfo{Slot: slot, Timestamp: doc.Timestamp}
	if doc.GameState != nil {
		info.EntryID = doc.GameState.CurrentEntryID
	}
	if doc.PlayerCharacter != nil {
		info.Name = doc.PlayerCharacter.Name
	}
	return info
}

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateSlot rejects slot names that are unsafe as file names or keys.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) || slot == "." || slot == ".." {
		return fmt.Errorf("invalid save slot %q", slot)
	}
	return nil
}
