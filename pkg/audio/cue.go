package audio

import "fmt"

// Channel is an independent playback slot.
type Channel string

const (
	ChannelAmbient Channel = "ambient"
	ChannelBattle  Channel = "battle"
	ChannelSpecial Channel = "special"
)

// Channels lists every channel.
var Channels = []Channel{ChannelAmbient, ChannelBattle, ChannelSpecial}

// CueKind is a playback instruction.
type CueKind string

const (
	CueEnterBattle CueKind = "enter_battle"
	CueExitBattle  CueKind = "exit_battle"
	CuePlay        CueKind = "play"
	CuePause       CueKind = "pause"
	CueResume      CueKind = "resume"
	CueStop        CueKind = "stop"
	CueVolume      CueKind = "volume"
)

// Cue is one ordered instruction for the playback backend. Enter/exit
// battle cues are markers for the presentation and carry no playback.
type Cue struct {
	Kind    CueKind `json:"kind"`
	Channel Channel `json:"channel,omitempty"`
	Track   string  `json:"track,omitempty"`
	Volume  float64 `json:"volume,omitempty"`
}

func (c Cue) String() string {
	switch c.Kind {
	case CuePlay:
		return fmt.Sprintf("play %s %q @%.2f", c.Channel, c.Track, c.Volume)
	case CueVolume:
		return fmt.Sprintf("volume %.2f", c.Volume)
	case CueEnterBattle, CueExitBattle:
		return string(c.Kind)
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Channel)
}
