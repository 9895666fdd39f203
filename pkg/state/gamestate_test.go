package state

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

func strPtr(s string) *string { return &s }

func TestNewGameState_Defaults(t *testing.T) {
	gs := NewGameState("")

	assert.Equal(t, story.DefaultStartEntry, gs.CurrentEntryID)
	assert.Equal(t, 1, gs.Level)
	assert.Zero(t, gs.XP)
	assert.False(t, gs.MusicEnabled)
	assert.False(t, gs.InBattle)
	assert.Nil(t, gs.CurrentBattleTrack)
	assert.Nil(t, gs.Species)
	assert.NotNil(t, gs.Inventory)
	assert.NotEqual(t, NewGameState("").SessionID, gs.SessionID)
}

func TestGameState_JSONShape(t *testing.T) {
	gs := NewGameState("7")
	gs.Class = strPtr("Wizard")

	data, err := json.Marshal(gs)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"sessionId", "species", "class", "subclass", "background", "currentEntryId",
		"inventory", "xp", "level", "musicEnabled", "inBattle", "currentBattleTrack", "currentAmbientTrack", "characterCreated"} {
		assert.Contains(t, raw, key)
	}
	assert.Nil(t, raw["species"])
	assert.Equal(t, "Wizard", raw["class"])
	assert.Equal(t, "7", raw["currentEntryId"])
}

func TestGameState_Clone(t *testing.T) {
	track := 2
	gs := NewGameState("1")
	gs.Species = strPtr("Elf")
	gs.Inventory = []string{"staff"}
	gs.CurrentBattleTrack = &track

	c := gs.Clone()
	*c.Species = "Dwarf"
	c.Inventory[0] = "axe"
	*c.CurrentBattleTrack = 1

	assert.Equal(t, "Elf", *gs.Species)
	assert.Equal(t, []string{"staff"}, gs.Inventory)
	assert.Equal(t, 2, *gs.CurrentBattleTrack)
	assert.Nil(t, (*GameState)(nil).Clone())
}

func TestGameState_AxisValue(t *testing.T) {
	gs := NewGameState("1")
	gs.Class = strPtr("Fighter")
	gs.Subclass = strPtr("")

	v, ok := gs.AxisValue(story.AxisClass)
	assert.True(t, ok)
	assert.Equal(t, "Fighter", v)

	_, ok = gs.AxisValue(story.AxisSpecies)
	assert.False(t, ok)
	_, ok = gs.AxisValue(story.AxisSubclass)
	assert.False(t, ok, "empty string counts as unset")
}

func TestGameState_HasIdentity(t *testing.T) {
	gs := NewGameState("1")
	gs.Species = strPtr("Human")
	gs.Class = strPtr("Cleric")
	assert.False(t, gs.HasIdentity())
	gs.Background = strPtr("Acolyte")
	assert.True(t, gs.HasIdentity())
}

func assign(key, value string) story.Assignment {
	return story.Assignment{Key: key, Value: json.RawMessage(value)}
}

func TestGameState_Apply(t *testing.T) {
	gs := NewGameState("1")

	require.NoError(t, gs.Apply(assign("species", `"Elf"`)))
	require.NoError(t, gs.Apply(assign("class", `"Sorcerer"`)))
	require.NoError(t, gs.Apply(assign("subclass", `"Wild Magic"`)))
	require.NoError(t, gs.Apply(assign("xp", `150`)))
	require.NoError(t, gs.Apply(assign("level", `2`)))
	require.NoError(t, gs.Apply(assign("inventory", `"rope"`)))
	require.NoError(t, gs.Apply(assign("inventory", `["torch","rations"]`)))
	require.NoError(t, gs.Apply(assign("character_created", `true`)))

	assert.Equal(t, "Elf", *gs.Species)
	assert.Equal(t, "Wild Magic", *gs.Subclass)
	assert.Equal(t, 150, gs.XP)
	assert.Equal(t, 2, gs.Level)
	assert.Equal(t, []string{"rope", "torch", "rations"}, gs.Inventory)
	assert.True(t, gs.CharacterCreated)

	require.NoError(t, gs.Apply(assign("subclass", `null`)))
	assert.Nil(t, gs.Subclass)
}

func TestGameState_ApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		a    story.Assignment
	}{
		{"unknown field", assign("alignment", `"chaotic"`)},
		{"species not a string", assign("species", `42`)},
		{"negative xp", assign("xp", `-5`)},
		{"level zero", assign("level", `0`)},
		{"xp not a number", assign("xp", `"lots"`)},
		{"inventory object", assign("inventory", `{"a":1}`)},
		{"characterCreated not bool", assign("characterCreated", `"yes"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState("1")
			before := gs.Clone()
			assert.Error(t, gs.Apply(tt.a))
			assert.Equal(t, before, gs)
		})
	}

	var unknown *UnknownFieldError
	err := NewGameState("1").Apply(assign("gold", `10`))
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "gold", unknown.Key)
}

func TestGameState_Validate(t *testing.T) {
	gs := NewGameState("1")
	assert.NoError(t, gs.Validate())

	gs.Level = 0
	assert.Error(t, gs.Validate())
	gs.Level = 1
	gs.CurrentEntryID = ""
	assert.Error(t, gs.Validate())
}

func TestSaveDocument_RoundTrip(t *testing.T) {
	gs := NewGameState("7")
	gs.Species = strPtr("Half-Elf")
	pc := &actor.PlayerCharacter{Name: "Tanis", Race: "Half-Elf", IsComplete: true}
	pc.SetStats(actor.Stats5e{Strength: 13, Dexterity: 15, Constitution: 12, Intelligence: 10, Wisdom: 14, Charisma: 8})
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	doc := NewSaveDocument(gs, pc, at)
	gs.CurrentEntryID = "8"

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp":"2024-03-01T11:00:00Z"`)

	back, err := ParseSaveDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "7", back.GameState.CurrentEntryID, "document is a snapshot")
	assert.Equal(t, "Tanis", back.PlayerCharacter.Name)
	assert.Equal(t, 2, back.PlayerCharacter.Modifiers.Dexterity)
	assert.True(t, back.Timestamp.Equal(at))
}

func TestParseSaveDocument_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"not json":     `{`,
		"no gameState": `{"timestamp":"2024-01-01T00:00:00Z"}`,
		"bad level":    `{"gameState":{"currentEntryId":"1","level":0}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSaveDocument([]byte(doc))
			assert.Error(t, err)
		})
	}

	doc, err := ParseSaveDocument([]byte(`{"gameState":{"currentEntryId":"1","level":1}}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.GameState.Inventory)
	assert.Nil(t, doc.PlayerCharacter)
}
