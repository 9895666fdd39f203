// Package audio derives the music mode of an entry and turns mode changes
// into ordered playback cues.
package audio

import (
	"fmt"
	"strings"

	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// Kind is the musical mood of an entry.
type Kind int

const (
	Ambient Kind = iota
	Battle
	Special
)

func (k Kind) String() string {
	switch k {
	case Ambient:
		return "ambient"
	case Battle:
		return "battle"
	case Special:
		return "special"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText writes the kind name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ambient":
		*k = Ambient
	case "battle":
		*k = Battle
	case "special":
		*k = Special
	default:
		return fmt.Errorf("unknown mode kind %q", b)
	}
	return nil
}

// Source records which rule decided a mode.
type Source string

const (
	SourceMusic   Source = "music"
	SourceKeyword Source = "keyword"
	SourceEntryID Source = "entry_id"
	SourceDefault Source = "default"
)

// Mode is the derived music mode. Track is set when the entry names one.
type Mode struct {
	Kind   Kind   `json:"kind"`
	Track  string `json:"track,omitempty"`
	Source Source `json:"source"`
}

// Channel is the playback channel the mode uses.
func (m Mode) Channel() Channel {
	switch m.Kind {
	case Battle:
		return ChannelBattle
	case Special:
		return ChannelSpecial
	}
	return ChannelAmbient
}

func (m Mode) String() string {
	if m.Track != "" {
		return fmt.Sprintf("%s(%s)", m.Kind, m.Track)
	}
	return m.Kind.String()
}

const (
	battleMarker  = "battle"
	mysteryMarker = "mystery"
)

// BattleKeywords mark an entry as a fight when found in its title or
// narrative.
var BattleKeywords = []string{
	"combat", "battle", "fight", "attack", "enemies", "skeletal warriors",
	"bandits", "combat erupts", "clash of steel", "fight for your life",
	"engaging", "charge", "melee attack", "weapon", "defend", "skeletons",
	"emerge", "advance with", "rusted weapons", "combat becomes unavoidable",
	"survival depends on", "fighting", "strikes back", "dodge attacks",
}

// BattleEntryIDs are entries known to be fights whatever their text says.
var BattleEntryIDs = map[string]bool{
	"15": true,
	"3":  true,
}

// DeriveMode classifies an entry. An explicit music track is authoritative
// and skips keyword and id detection.
func DeriveMode(entry *story.Entry) Mode {
	if entry == nil {
		return Mode{Kind: Ambient, Source: SourceDefault}
	}

	if music := strings.TrimSpace(entry.Music); music != "" {
		lower := strings.ToLower(music)
		switch {
		case strings.Contains(lower, battleMarker):
			return Mode{Kind: Battle, Track: music, Source: SourceMusic}
		case strings.Contains(lower, mysteryMarker):
			return Mode{Kind: Special, Track: music, Source: SourceMusic}
		default:
			return Mode{Kind: Ambient, Track: music, Source: SourceMusic}
		}
	}

	text := strings.ToLower(entry.Title + " " + entry.Narrative)
	for _, kw := range BattleKeywords {
		if strings.Contains(text, kw) {
			return Mode{Kind: Battle, Source: SourceKeyword}
		}
	}
	if BattleEntryIDs[entry.ID] {
		return Mode{Kind: Battle, Source: SourceEntryID}
	}
	return Mode{Kind: Ambient, Source: SourceDefault}
}
