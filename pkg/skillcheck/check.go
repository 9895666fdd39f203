package skillcheck

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// DieSize is the die rolled for every check.
const DieSize = 20

// ModifierSource supplies ability modifiers; *actor.PlayerCharacter is one.
type ModifierSource interface {
	Modifier(a actor.Ability) int
}

// Result is the outcome of one check.
type Result struct {
	Skill       string        `json:"skill"`
	Ability     actor.Ability `json:"ability"`
	Roll        int           `json:"roll"`
	Modifier    int           `json:"modifier"`
	Total       int           `json:"total"`
	DC          int           `json:"dc"`
	Success     bool          `json:"success"`
	Destination string        `json:"destination"`
}

func (r Result) String() string {
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	return fmt.Sprintf("%s (%s): %d %+d = %d vs DC %d, %s",
		r.Skill, r.Ability.Short(), r.Roll, r.Modifier, r.Total, r.DC, outcome)
}

// Evaluate rolls a d20 for the check. A nil roller uses dice.DefaultRoller;
// a nil mods source counts as a zero modifier.
func Evaluate(check story.SkillCheck, mods ModifierSource, roller dice.Roller) (Result, error) {
	if roller == nil {
		roller = dice.DefaultRoller
	}

	roll, err := roller.Roll(DieSize)
	if err != nil {
		return Result{}, fmt.Errorf("failed to roll d%d: %w", DieSize, err)
	}
	if roll < 1 || roll > DieSize {
		return Result{}, fmt.Errorf("roll %d outside 1..%d", roll, DieSize)
	}

	ability := AbilityFor(check.Skill)
	modifier := 0
	if mods != nil {
		modifier = mods.Modifier(ability)
	}

	total := roll + modifier
	res := Result{
		Skill:    check.Skill,
		Ability:  ability,
		Roll:     roll,
		Modifier: modifier,
		Total:    total,
		DC:       check.DC,
		Success:  total >= check.DC,
	}
	if res.Success {
		res.Destination = check.Success
	} else {
		res.Destination = check.Failure
	}
	return res, nil
}
