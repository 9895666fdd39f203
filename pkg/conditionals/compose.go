// Package conditionals composes the character-dependent fragments of an
// entry.
package conditionals

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// GameStateView provides the minimal interface needed to compose fragments.
// This avoids import cycles with the state package.
type GameStateView interface {
	AxisValue(axis story.Axis) (string, bool)
}

// Fragment is one piece of conditional text selected for the current
// character.
type Fragment struct {
	Axis  story.Axis `json:"axis"`
	Value string     `json:"value"`
	Text  string     `json:"text"`
}

// Label is the axis name for display, e.g. "Species".
func (f Fragment) Label() string {
	return AxisLabel(f.Axis)
}

var titleCaser = cases.Title(language.English)

// AxisLabel title-cases an axis name.
func AxisLabel(axis story.Axis) string {
	return titleCaser.String(string(axis))
}

// Compose returns the fragments that apply, in axis order species, class,
// subclass, background. An axis contributes only when the entry authors it,
// the state has a value for it and a fragment exists for that value.
func Compose(entry *story.Entry, view GameStateView) []Fragment {
	if entry == nil || len(entry.ConditionalText) == 0 || view == nil {
		return nil
	}

	var out []Fragment
	for _, axis := range story.Axes {
		value, ok := view.AxisValue(axis)
		if !ok {
			continue
		}
		text, ok := entry.ConditionalText.Fragment(axis, value)
		if !ok {
			continue
		}
		out = append(out, Fragment{Axis: axis, Value: value, Text: text})
	}
	return out
}
