package actor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jwebster45206/d20"
)

// MinNameLength is the shortest accepted character name, in runes.
const MinNameLength = 2

// DefaultName stands in for the player's name until one is chosen.
const DefaultName = "Adventurer"

// PlayerCharacter is the player's identity and ability scores.
type PlayerCharacter struct {
	Name       string  `json:"name"`
	Race       string  `json:"race"`
	Stats      Stats5e `json:"stats"`
	Modifiers  Stats5e `json:"modifiers"`
	IsComplete bool    `json:"isComplete"`
}

// NewPlayerCharacter returns an incomplete character with default scores.
func NewPlayerCharacter() *PlayerCharacter {
	stats := DefaultStats()
	return &PlayerCharacter{
		Stats:     stats,
		Modifiers: stats.Modifiers(),
	}
}

// Clone returns a copy; PlayerCharacter holds no reference types.
func (pc *PlayerCharacter) Clone() *PlayerCharacter {
	if pc == nil {
		return nil
	}
	c := *pc
	return &c
}

// SetStats replaces the scores and recomputes modifiers.
func (pc *PlayerCharacter) SetStats(s Stats5e) {
	pc.Stats = s
	pc.Modifiers = s.Modifiers()
}

// Modifier returns the ability modifier, derived from the score so a
// hand-edited save cannot desynchronise the two.
func (pc *PlayerCharacter) Modifier(a Ability) int {
	return AbilityModifier(pc.Stats.Get(a))
}

// DisplayName is the name used for narrative substitution.
func (pc *PlayerCharacter) DisplayName() string {
	if pc == nil || strings.TrimSpace(pc.Name) == "" {
		return DefaultName
	}
	return strings.TrimSpace(pc.Name)
}

// ValidName reports whether name is long enough once trimmed.
func ValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}

// Actor builds the d20 actor used for the character sheet: hit points are
// 10 + CON modifier (minimum 1) and armor class 10 + DEX modifier.
func (pc *PlayerCharacter) Actor() (*d20.Actor, error) {
	id := strings.TrimSpace(pc.Name)
	if id == "" {
		id = "player"
	}

	hp := 10 + pc.Modifier(Constitution)
	if hp < 1 {
		hp = 1
	}
	ac := 10 + pc.Modifier(Dexterity)

	actor, err := d20.NewActor(id).
		WithHP(hp).
		WithAC(ac).
		WithAttributes(pc.Stats.ToAttributes()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}
	return actor, nil
}

// Sheet is a read-only projection of the character for presentation.
type Sheet struct {
	Name      string
	Race      string
	Stats     Stats5e
	Modifiers Stats5e
	HP        int
	AC        int
	Complete  bool
}

// Sheet projects the character, including HP and AC from its d20 actor.
func (pc *PlayerCharacter) Sheet() (Sheet, error) {
	s := Sheet{
		Name:      pc.Name,
		Race:      pc.Race,
		Stats:     pc.Stats,
		Modifiers: pc.Stats.Modifiers(),
		Complete:  pc.IsComplete,
	}
	a, err := pc.Actor()
	if err != nil {
		return s, err
	}
	s.HP = a.MaxHP()
	s.AC = a.AC()
	return s, nil
}
