package state

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// GameState is the mutable adventure progress of the single player.
// It is owned by the engine; everything else sees clones.
type GameState struct {
	SessionID           uuid.UUID `json:"sessionId"`
	Species             *string   `json:"species"`
	Class               *string   `json:"class"`
	Subclass            *string   `json:"subclass"`
	Background          *string   `json:"background"`
	CurrentEntryID      string    `json:"currentEntryId"`
	Inventory           []string  `json:"inventory"`
	XP                  int       `json:"xp"`
	Level               int       `json:"level"`
	MusicEnabled        bool      `json:"musicEnabled"`
	InBattle            bool      `json:"inBattle"`
	CurrentBattleTrack  *int      `json:"currentBattleTrack"`
	CurrentAmbientTrack int       `json:"currentAmbientTrack"`
	CharacterCreated    bool      `json:"characterCreated"`
}

// NewGameState returns the defaults a new game starts from.
func NewGameState(startEntry string) *GameState {
	if startEntry == "" {
		startEntry = story.DefaultStartEntry
	}
	return &GameState{
		SessionID:      uuid.New(),
		CurrentEntryID: startEntry,
		Inventory:      make([]string, 0),
		XP:             0,
		Level:          1,
	}
}

// Clone returns a deep copy.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.Species = clonePtr(gs.Species)
	c.Class = clonePtr(gs.Class)
	c.Subclass = clonePtr(gs.Subclass)
	c.Background = clonePtr(gs.Background)
	c.CurrentBattleTrack = clonePtr(gs.CurrentBattleTrack)
	c.Inventory = slices.Clone(gs.Inventory)
	if c.Inventory == nil {
		c.Inventory = make([]string, 0)
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// AxisValue returns the player's value for a conditional text axis.
func (gs *GameState) AxisValue(axis story.Axis) (string, bool) {
	var p *string
	switch axis {
	case story.AxisSpecies:
		p = gs.Species
	case story.AxisClass:
		p = gs.Class
	case story.AxisSubclass:
		p = gs.Subclass
	case story.AxisBackground:
		p = gs.Background
	}
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// HasIdentity reports whether species, class and background are all chosen,
// which is when level and XP become meaningful to show.
func (gs *GameState) HasIdentity() bool {
	return gs.Species != nil && gs.Class != nil && gs.Background != nil
}

// Validate checks a restored game state for values the engine cannot run with.
func (gs *GameState) Validate() error {
	if gs.CurrentEntryID == "" {
		return fmt.Errorf("currentEntryId is required")
	}
	if gs.Level < 1 {
		return fmt.Errorf("level must be at least 1, got %d", gs.Level)
	}
	if gs.XP < 0 {
		return fmt.Errorf("xp cannot be negative, got %d", gs.XP)
	}
	if gs.CurrentAmbientTrack < 0 {
		return fmt.Errorf("currentAmbientTrack cannot be negative, got %d", gs.CurrentAmbientTrack)
	}
	return nil
}
