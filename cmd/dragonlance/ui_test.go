package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/pkg/conditionals"
	"github.com/iRKakashi/dragon-lance-web/pkg/engine"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

const uiEntriesJSON = `{
  "entries": {
    "species_selection": {
      "id": "species_selection",
      "title": "Choose Your Heritage",
      "narrative": "Who are you?",
      "choices": [
        {"text": "Human", "sets": {"species": "Human"}, "destination": "1"}
      ]
    },
    "1": {
      "id": "1",
      "title": "The Road to Solace",
      "narrative": "The road is quiet.",
      "choices": [{"text": "Search", "skill_check": {"skill": "investigation", "dc": 5, "success": "2", "failure": "2"}}]
    },
    "2": {"id": "2", "title": "The End", "narrative": "Rest now."}
  }
}`

func newTestUI(t *testing.T) (GameUI, *engine.Engine) {
	t.Helper()
	doc, err := story.ParseDocument([]byte(uiEntriesJSON))
	require.NoError(t, err)

	updates := signal.NewChannel(64)
	eng := engine.New(story.NewStore(&story.Document{}, doc),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithSink(updates),
		engine.WithNavigationDelay(0),
		engine.WithCharacterBuilder(false),
	)
	t.Cleanup(func() { _ = eng.Close() })
	require.NoError(t, eng.Start(context.Background()))

	ui := NewGameUI(context.Background(), eng, updates.C)
	model, _ := ui.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(GameUI), eng
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m GameUI, keys ...string) (GameUI, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var model tea.Model = m
	for _, k := range keys {
		model, cmd = model.(GameUI).Update(key(k))
	}
	return model.(GameUI), cmd
}

func TestGameUI_ChooseAndAdvance(t *testing.T) {
	m, eng := newTestUI(t)
	assert.Equal(t, "species_selection", m.view.EntryID)
	assert.Contains(t, m.View(), "Choose Your Heritage")

	m, cmd := press(t, m, "1")
	require.NotNil(t, cmd)
	assert.True(t, m.navigating)
	assert.True(t, eng.View().InputLocked)

	model, _ := m.Update(advanceMsg{navigation: m.navigation})
	m = model.(GameUI)
	assert.False(t, m.navigating)
	assert.Equal(t, "1", m.view.EntryID)
	assert.Equal(t, "Human", m.view.Character.Species)
}

func TestGameUI_SkillCheckModal(t *testing.T) {
	m, eng := newTestUI(t)
	require.NoError(t, eng.GoTo(context.Background(), "1"))

	m, _ = press(t, m, "enter")
	require.Equal(t, engine.ModalSkillCheck, m.view.Modal)
	assert.Contains(t, m.View(), "Skill Check")

	m, _ = press(t, m, "r")
	require.NotNil(t, m.view.SkillCheck.Result)

	m, _ = press(t, m, "enter")
	assert.Empty(t, m.view.Modal)
	assert.Equal(t, "2", m.view.EntryID)
	assert.True(t, m.view.IsEnding)
	assert.Contains(t, m.View(), "THE END")
}

func TestGameUI_SkillCheckCancel(t *testing.T) {
	m, eng := newTestUI(t)
	require.NoError(t, eng.GoTo(context.Background(), "1"))

	m, _ = press(t, m, "enter", "esc")
	assert.Empty(t, m.view.Modal)
	assert.Equal(t, "1", m.view.EntryID)
}

func TestGameUI_OutOfRangeNumberIgnored(t *testing.T) {
	m, _ := newTestUI(t)

	m, cmd := press(t, m, "9")
	assert.Nil(t, cmd)
	assert.False(t, m.navigating)
	assert.Equal(t, "species_selection", m.view.EntryID)
}

func TestGameUI_QuitModal(t *testing.T) {
	m, _ := newTestUI(t)

	m, _ = press(t, m, "q")
	require.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "Quit Game?")

	m, _ = press(t, m, "n")
	assert.False(t, m.showQuitModal)

	_, cmd := press(t, m, "q", "y")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestGameUI_AdvanceAfterRestartIgnored(t *testing.T) {
	m, _ := newTestUI(t)

	m, _ = press(t, m, "1")
	m.navigating = false
	model, _ := m.Update(advanceMsg{})
	assert.Equal(t, "species_selection", model.(GameUI).view.EntryID)
}

func TestGameUI_StaleAdvanceAfterRestartAndChoose(t *testing.T) {
	m, eng := newTestUI(t)

	m, _ = press(t, m, "1")
	stale := advanceMsg{navigation: m.navigation}

	m, cmd := press(t, m, "ctrl+n")
	require.NotNil(t, cmd)
	model, _ := m.Update(cmd())
	m = model.(GameUI)
	require.Equal(t, "species_selection", m.view.EntryID)

	m, _ = press(t, m, "1")
	require.True(t, m.navigating)
	require.NotEqual(t, stale.navigation, m.navigation)

	model, _ = m.Update(stale)
	m = model.(GameUI)
	assert.True(t, m.navigating)
	assert.Equal(t, "species_selection", eng.View().EntryID)
	assert.True(t, eng.View().InputLocked)

	model, _ = m.Update(advanceMsg{navigation: m.navigation})
	m = model.(GameUI)
	assert.False(t, m.navigating)
	assert.Equal(t, "1", m.view.EntryID)
}

func TestPlainText(t *testing.T) {
	v := engine.View{
		Title:        "The Inn",
		Narrative:    "Warm light. ",
		Fragments:    []conditionals.Fragment{{Axis: story.AxisSpecies, Value: "Elf", Text: "You feel watched."}},
		Continuation: "",
	}
	assert.Equal(t, "The Inn\n\nWarm light.\n\nYou feel watched.", plainText(v))
}

func TestFragmentLabel(t *testing.T) {
	tests := []struct {
		fragment conditionals.Fragment
		want     string
	}{
		{conditionals.Fragment{Axis: story.AxisSpecies, Value: "Elf"}, "🏛️ Species: Elf"},
		{conditionals.Fragment{Axis: story.AxisClass, Value: "Fighter"}, "⚔️ Class: Fighter"},
		{conditionals.Fragment{Axis: story.AxisClass, Value: "Bard"}, "🎭 Class: Bard"},
		{conditionals.Fragment{Axis: story.AxisBackground, Value: "Sage"}, "📜 Background: Sage"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fragmentLabel(tt.fragment))
	}
}

func TestWriteStory_LabelsFragments(t *testing.T) {
	v := engine.View{
		Title:     "The Inn",
		Narrative: "Warm light.",
		Fragments: []conditionals.Fragment{{Axis: story.AxisClass, Value: "Fighter", Text: "Your hand rests on your sword."}},
	}
	out := GameUI{view: v}.writeStory(80)
	assert.Contains(t, out, "⚔️ Class: Fighter")
	assert.Contains(t, out, "Your hand rests on your sword.")
}

func TestRenderChoice(t *testing.T) {
	c := engine.ChoiceView{Text: "Search", SkillCheck: &story.SkillCheck{Skill: "investigation", DC: 12}}
	out := renderChoice(0, c, false, false)
	assert.Contains(t, out, "1. Search [investigation DC 12]")
}

func TestWriteSheet(t *testing.T) {
	v := engine.View{
		MusicEnabled: true,
		Character: engine.CharacterSummary{
			Name:      "Tanis",
			Species:   "Half-Elf",
			Class:     "Ranger",
			Inventory: []string{"bow"},
		},
	}
	out := writeSheet(v)
	for _, want := range []string{"Tanis", "Half-Elf", "Ranger", "bow", "Music on"} {
		assert.True(t, strings.Contains(out, want), "missing %q", want)
	}
}
