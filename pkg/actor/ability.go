package actor

import "strings"

// Ability is one of the six core ability scores.
type Ability string

const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// Abilities lists the six abilities in character sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// StandardArray is the fixed set of scores every character assigns once each.
var StandardArray = []int{15, 14, 13, 12, 10, 8}

// DefaultScore is used for abilities that were never assigned, giving a
// modifier of zero.
const DefaultScore = 10

// ParseAbility accepts full names and the usual three-letter abbreviations.
func ParseAbility(s string) (Ability, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strength", "str":
		return Strength, true
	case "dexterity", "dex":
		return Dexterity, true
	case "constitution", "con":
		return Constitution, true
	case "intelligence", "int":
		return Intelligence, true
	case "wisdom", "wis":
		return Wisdom, true
	case "charisma", "cha":
		return Charisma, true
	}
	return "", false
}

// Short returns the three-letter abbreviation.
func (a Ability) Short() string {
	if len(a) < 3 {
		return strings.ToUpper(string(a))
	}
	return strings.ToUpper(string(a[:3]))
}

// AbilityModifier is floor((score-10)/2).
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// Stats5e represents the six core D&D 5e ability scores
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultStats has every ability at DefaultScore.
func DefaultStats() Stats5e {
	return Stats5e{
		Strength:     DefaultScore,
		Dexterity:    DefaultScore,
		Constitution: DefaultScore,
		Intelligence: DefaultScore,
		Wisdom:       DefaultScore,
		Charisma:     DefaultScore,
	}
}

// Get returns the score for an ability.
func (s Stats5e) Get(a Ability) int {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	}
	return 0
}

// Set writes the score for an ability.
func (s *Stats5e) Set(a Ability, v int) {
	switch a {
	case Strength:
		s.Strength = v
	case Dexterity:
		s.Dexterity = v
	case Constitution:
		s.Constitution = v
	case Intelligence:
		s.Intelligence = v
	case Wisdom:
		s.Wisdom = v
	case Charisma:
		s.Charisma = v
	}
}

// Modifiers derives the modifier for every score.
func (s Stats5e) Modifiers() Stats5e {
	var m Stats5e
	for _, a := range Abilities {
		m.Set(a, AbilityModifier(s.Get(a)))
	}
	return m
}

// ToAttributes converts Stats5e to a map for d20.Actor compatibility
func (s *Stats5e) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}
