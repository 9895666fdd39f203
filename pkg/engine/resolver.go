package engine

import (
	"fmt"

	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// EffectKind is what selecting a choice leads to.
type EffectKind int

const (
	// EffectTerminal means the choice leads nowhere.
	EffectTerminal EffectKind = iota
	// EffectNavigate moves to Effect.Destination.
	EffectNavigate
	// EffectSkillCheck prompts for Effect.SkillCheck.
	EffectSkillCheck
)

func (k EffectKind) String() string {
	switch k {
	case EffectNavigate:
		return "navigate"
	case EffectSkillCheck:
		return "skill_check"
	case EffectTerminal:
		return "terminal"
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is the outcome of resolving a choice.
type Effect struct {
	Kind        EffectKind
	Destination string
	SkillCheck  *story.SkillCheck
	// Held is set when the character builder holds the navigation until
	// ConfirmAbilities.
	Held bool
	// Navigation numbers the pending navigation for AdvanceIf.
	Navigation uint64
	// Skipped holds the assignments that could not be applied.
	Skipped []error
}

// Resolve applies the choice's sets to gs in authored order and classifies
// it. A skill check wins over a destination on the same choice. Assignments
// with an unknown key or a bad value are skipped and reported in Skipped;
// the rest still apply.
func Resolve(gs *state.GameState, choice *story.Choice) Effect {
	var eff Effect
	for _, a := range choice.Sets {
		if err := gs.Apply(a); err != nil {
			eff.Skipped = append(eff.Skipped, err)
		}
	}

	switch {
	case choice.SkillCheck != nil:
		sc := *choice.SkillCheck
		eff.Kind = EffectSkillCheck
		eff.SkillCheck = &sc
	case choice.Destination != "":
		eff.Kind = EffectNavigate
		eff.Destination = choice.Destination
	default:
		eff.Kind = EffectTerminal
	}
	return eff
}
