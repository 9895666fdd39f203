package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
)

// SaveDocument is the persisted form of a session.
type SaveDocument struct {
	GameState       *GameState             `json:"gameState"`
	PlayerCharacter *actor.PlayerCharacter `json:"playerCharacter"`
	Timestamp       time.Time              `json:"timestamp"`
}

// NewSaveDocument snapshots the session. Both values are copied.
func NewSaveDocument(gs *GameState, pc *actor.PlayerCharacter, at time.Time) *SaveDocument {
	return &SaveDocument{
		GameState:       gs.Clone(),
		PlayerCharacter: pc.Clone(),
		Timestamp:       at.UTC(),
	}
}

// Validate checks the document can be restored. A missing player character
// is allowed; saves made before character creation have none.
func (d *SaveDocument) Validate() error {
	if d == nil || d.GameState == nil {
		return fmt.Errorf("save document has no gameState")
	}
	return d.GameState.Validate()
}

// ParseSaveDocument decodes and validates a save.
func ParseSaveDocument(data []byte) (*SaveDocument, error) {
	var doc SaveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if doc.GameState.Inventory == nil {
		doc.GameState.Inventory = make([]string, 0)
	}
	return &doc, nil
}
