package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// Field is a GameState field that authored choices may write.
type Field string

const (
	FieldSpecies          Field = "species"
	FieldClass            Field = "class"
	FieldSubclass         Field = "subclass"
	FieldBackground       Field = "background"
	FieldXP               Field = "xp"
	FieldLevel            Field = "level"
	FieldInventory        Field = "inventory"
	FieldCharacterCreated Field = "characterCreated"
)

// ParseField maps a sets key to a Field. Both camelCase and snake_case
// spellings of the multi-word keys are accepted.
func ParseField(key string) (Field, bool) {
	switch strings.TrimSpace(key) {
	case "species":
		return FieldSpecies, true
	case "class":
		return FieldClass, true
	case "subclass":
		return FieldSubclass, true
	case "background":
		return FieldBackground, true
	case "xp":
		return FieldXP, true
	case "level":
		return FieldLevel, true
	case "inventory":
		return FieldInventory, true
	case "characterCreated", "character_created":
		return FieldCharacterCreated, true
	}
	return "", false
}

// UnknownFieldError is returned by Apply for keys that do not name a Field.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown state field %q", e.Key)
}

// Apply writes one authored assignment. Inventory writes append; every other
// field is overwritten. A JSON null clears the nullable string fields.
func (gs *GameState) Apply(a story.Assignment) error {
	field, ok := ParseField(a.Key)
	if !ok {
		return &UnknownFieldError{Key: a.Key}
	}

	raw := bytes.TrimSpace(a.Value)
	isNull := len(raw) == 0 || bytes.Equal(raw, []byte("null"))

	switch field {
	case FieldSpecies, FieldClass, FieldSubclass, FieldBackground:
		var target **string
		switch field {
		case FieldSpecies:
			target = &gs.Species
		case FieldClass:
			target = &gs.Class
		case FieldSubclass:
			target = &gs.Subclass
		default:
			target = &gs.Background
		}
		if isNull {
			*target = nil
			return nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%s must be a string: %w", field, err)
		}
		*target = &s

	case FieldXP, FieldLevel:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("%s must be an integer: %w", field, err)
		}
		if field == FieldXP {
			if n < 0 {
				return fmt.Errorf("xp cannot be negative, got %d", n)
			}
			gs.XP = n
		} else {
			if n < 1 {
				return fmt.Errorf("level must be at least 1, got %d", n)
			}
			gs.Level = n
		}

	case FieldInventory:
		if isNull {
			return nil
		}
		var items []string
		if raw[0] == '[' {
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("inventory must be a string or list of strings: %w", err)
			}
		} else {
			var item string
			if err := json.Unmarshal(raw, &item); err != nil {
				return fmt.Errorf("inventory must be a string or list of strings: %w", err)
			}
			items = []string{item}
		}
		gs.Inventory = append(gs.Inventory, items...)

	case FieldCharacterCreated:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("%s must be a boolean: %w", field, err)
		}
		gs.CharacterCreated = b
	}
	return nil
}
