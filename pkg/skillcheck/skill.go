// Package skillcheck resolves d20 skill checks against a character's
// ability modifiers.
package skillcheck

import (
	"strings"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
)

// Skill is one of the eighteen 5e skills.
type Skill string

const (
	Acrobatics     Skill = "acrobatics"
	AnimalHandling Skill = "animal handling"
	Arcana         Skill = "arcana"
	Athletics      Skill = "athletics"
	Deception      Skill = "deception"
	History        Skill = "history"
	Insight        Skill = "insight"
	Intimidation   Skill = "intimidation"
	Investigation  Skill = "investigation"
	Medicine       Skill = "medicine"
	Nature         Skill = "nature"
	Perception     Skill = "perception"
	Performance    Skill = "performance"
	Persuasion     Skill = "persuasion"
	Religion       Skill = "religion"
	SleightOfHand  Skill = "sleight of hand"
	Stealth        Skill = "stealth"
	Survival       Skill = "survival"
)

// FallbackAbility backs skills that are not in the table.
const FallbackAbility = actor.Wisdom

var skillAbilities = map[Skill]actor.Ability{
	Acrobatics:     actor.Dexterity,
	AnimalHandling: actor.Wisdom,
	Arcana:         actor.Intelligence,
	Athletics:      actor.Strength,
	Deception:      actor.Charisma,
	History:        actor.Intelligence,
	Insight:        actor.Wisdom,
	Intimidation:   actor.Charisma,
	Investigation:  actor.Intelligence,
	Medicine:       actor.Wisdom,
	Nature:         actor.Intelligence,
	Perception:     actor.Wisdom,
	Performance:    actor.Charisma,
	Persuasion:     actor.Charisma,
	Religion:       actor.Intelligence,
	SleightOfHand:  actor.Dexterity,
	Stealth:        actor.Dexterity,
	Survival:       actor.Wisdom,
}

// Skills returns every known skill in alphabetical order.
func Skills() []Skill {
	return []Skill{
		Acrobatics, AnimalHandling, Arcana, Athletics, Deception, History,
		Insight, Intimidation, Investigation, Medicine, Nature, Perception,
		Performance, Persuasion, Religion, SleightOfHand, Stealth, Survival,
	}
}

// ParseSkill normalizes an authored skill name. Case, surrounding space and
// underscores or hyphens in place of spaces are accepted.
func ParseSkill(name string) (Skill, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", " ", "-", " ").Replace(n)
	s := Skill(n)
	_, ok := skillAbilities[s]
	return s, ok
}

// IsKnown reports whether the authored name maps to a skill.
func IsKnown(name string) bool {
	_, ok := ParseSkill(name)
	return ok
}

// Ability returns the ability behind the skill.
func (s Skill) Ability() actor.Ability {
	if a, ok := skillAbilities[s]; ok {
		return a
	}
	return FallbackAbility
}

// AbilityFor maps an authored skill name to its ability, falling back to
// wisdom for names that are not skills.
func AbilityFor(name string) actor.Ability {
	s, ok := ParseSkill(name)
	if !ok {
		return FallbackAbility
	}
	return s.Ability()
}
