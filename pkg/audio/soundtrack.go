package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Track is one audio file.
type Track struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Playlist is the tracks of one channel and their starting volume.
type Playlist struct {
	Volume float64 `yaml:"volume"`
	Tracks []Track `yaml:"tracks"`
}

// Soundtrack is the manifest of available music.
type Soundtrack struct {
	Dir     string   `yaml:"dir"`
	Ambient Playlist `yaml:"ambient"`
	Battle  Playlist `yaml:"battle"`
	Special Playlist `yaml:"special"`
}

// DefaultSoundtrack is one ambient loop and two battle tracks.
func DefaultSoundtrack() *Soundtrack {
	return &Soundtrack{
		Dir: "audio",
		Ambient: Playlist{
			Volume: 0.3,
			Tracks: []Track{{Name: "Fantasy Ambient", File: "ambient.mp3"}},
		},
		Battle: Playlist{
			Volume: 0.4,
			Tracks: []Track{
				{Name: "Battle I", File: "Battle1.mp3"},
				{Name: "Battle II", File: "Battle2.mp3"},
			},
		},
	}
}

// LoadSoundtrack loads a manifest from a YAML file.
func LoadSoundtrack(path string) (*Soundtrack, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, err
	}
	return ParseSoundtrack(b)
}

// ParseSoundtrack decodes a manifest and validates it.
func ParseSoundtrack(b []byte) (*Soundtrack, error) {
	var s Soundtrack
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks volumes and that the ambient playlist is not empty.
func (s *Soundtrack) Validate() error {
	if len(s.Ambient.Tracks) == 0 {
		return fmt.Errorf("soundtrack: ambient playlist is empty")
	}
	for name, p := range map[string]Playlist{"ambient": s.Ambient, "battle": s.Battle, "special": s.Special} {
		if p.Volume < 0 || p.Volume > 1 {
			return fmt.Errorf("soundtrack: %s volume %.2f outside 0..1", name, p.Volume)
		}
		for i, t := range p.Tracks {
			if t.File == "" {
				return fmt.Errorf("soundtrack: %s track %d has no file", name, i)
			}
		}
	}
	return nil
}

// Playlist returns the playlist of a channel.
func (s *Soundtrack) Playlist(ch Channel) Playlist {
	switch ch {
	case ChannelBattle:
		return s.Battle
	case ChannelSpecial:
		return s.Special
	}
	return s.Ambient
}

// Path joins a track file onto the manifest directory. Absolute files are
// returned unchanged.
func (s *Soundtrack) Path(file string) string {
	if s.Dir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(s.Dir, file)
}

// AmbientFile returns the ambient track at index i, wrapping around.
func (s *Soundtrack) AmbientFile(i int) string {
	n := len(s.Ambient.Tracks)
	if n == 0 {
		return ""
	}
	return s.Ambient.Tracks[((i%n)+n)%n].File
}

// BattleIndex finds a battle track by file name, returning a 1-based index.
func (s *Soundtrack) BattleIndex(file string) (int, bool) {
	for i, t := range s.Battle.Tracks {
		if t.File == file || filepath.Base(t.File) == filepath.Base(file) {
			return i + 1, true
		}
	}
	return 0, false
}
