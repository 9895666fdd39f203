package skillcheck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

type fixedRoller struct {
	value int
	err   error
	sizes []int
}

func (r *fixedRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	return r.value, r.err
}

func (r *fixedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type flatMods map[actor.Ability]int

func (m flatMods) Modifier(a actor.Ability) int { return m[a] }

func TestEvaluate_Threshold(t *testing.T) {
	check := story.SkillCheck{Skill: "Survival", Success: "win", Failure: "lose"}
	mods := flatMods{actor.Wisdom: 2}

	tests := []struct {
		dc      int
		success bool
		dest    string
	}{
		{17, true, "win"},
		{18, false, "lose"},
	}
	for _, tt := range tests {
		check.DC = tt.dc
		roller := &fixedRoller{value: 15}

		res, err := Evaluate(check, mods, roller)
		require.NoError(t, err)
		assert.Equal(t, 15, res.Roll)
		assert.Equal(t, 2, res.Modifier)
		assert.Equal(t, 17, res.Total)
		assert.Equal(t, tt.success, res.Success, "dc %d", tt.dc)
		assert.Equal(t, tt.dest, res.Destination)
		assert.Equal(t, actor.Wisdom, res.Ability)
		assert.Equal(t, []int{DieSize}, roller.sizes)
	}
}

func TestEvaluate_LowDCAlwaysSucceeds(t *testing.T) {
	for roll := 1; roll <= DieSize; roll++ {
		for _, dc := range []int{-3, 0, 1} {
			res, err := Evaluate(story.SkillCheck{Skill: "stealth", DC: dc, Success: "s", Failure: "f"},
				flatMods{}, &fixedRoller{value: roll})
			require.NoError(t, err)
			assert.True(t, res.Success, "roll %d dc %d", roll, dc)
		}
	}
}

func TestEvaluate_UsesPlayerCharacter(t *testing.T) {
	pc := actor.NewPlayerCharacter()
	pc.SetStats(actor.Stats5e{Strength: 8, Dexterity: 15, Constitution: 14, Intelligence: 12, Wisdom: 10, Charisma: 13})

	res, err := Evaluate(story.SkillCheck{Skill: "Stealth", DC: 12}, pc, &fixedRoller{value: 10})
	require.NoError(t, err)
	assert.Equal(t, actor.Dexterity, res.Ability)
	assert.Equal(t, 2, res.Modifier)
	assert.True(t, res.Success)

	res, err = Evaluate(story.SkillCheck{Skill: "Athletics", DC: 10}, pc, &fixedRoller{value: 10})
	require.NoError(t, err)
	assert.Equal(t, -1, res.Modifier)
	assert.False(t, res.Success)
}

func TestEvaluate_RollerErrors(t *testing.T) {
	_, err := Evaluate(story.SkillCheck{Skill: "arcana", DC: 10}, nil, &fixedRoller{err: errors.New("boom")})
	assert.Error(t, err)

	for _, bad := range []int{0, 21} {
		_, err := Evaluate(story.SkillCheck{Skill: "arcana", DC: 10}, nil, &fixedRoller{value: bad})
		assert.Error(t, err, "roll %d", bad)
	}
}

func TestEvaluate_DefaultRollerInRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		res, err := Evaluate(story.SkillCheck{Skill: "insight", DC: 10}, nil, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Roll, 1)
		assert.LessOrEqual(t, res.Roll, DieSize)
	}
}

func TestAbilityFor(t *testing.T) {
	tests := []struct {
		name string
		want actor.Ability
	}{
		{"Survival", actor.Wisdom},
		{"Stealth", actor.Dexterity},
		{"Persuasion", actor.Charisma},
		{"athletics", actor.Strength},
		{"Sleight of Hand", actor.Dexterity},
		{"sleight_of_hand", actor.Dexterity},
		{"animal-handling", actor.Wisdom},
		{"Arcana", actor.Intelligence},
		{"Basket Weaving", actor.Wisdom},
		{"", actor.Wisdom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbilityFor(tt.name))
		})
	}
}

func TestSkillTableIsExhaustive(t *testing.T) {
	skills := Skills()
	assert.Len(t, skills, 18)
	for _, s := range skills {
		_, ok := skillAbilities[s]
		assert.True(t, ok, "%s has no ability", s)
		assert.True(t, IsKnown(string(s)))
	}
	assert.False(t, IsKnown("cooking"))
}

func TestResultString(t *testing.T) {
	r := Result{Skill: "Survival", Ability: actor.Wisdom, Roll: 15, Modifier: 2, Total: 17, DC: 17, Success: true}
	assert.Equal(t, "Survival (WIS): 15 +2 = 17 vs DC 17, success", r.String())
}
