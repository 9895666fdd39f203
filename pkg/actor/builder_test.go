package actor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
)

func builderAtAbilities(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.SelectRace("Kender"))
	b.SetName("Tasslehoff")
	require.NoError(t, b.ConfirmIdentity())
	require.Equal(t, StageAbilityScoreAssignment, b.Stage())
	return b
}

func assignAll(t *testing.T, b *Builder, scores []int) {
	t.Helper()
	for i, a := range Abilities {
		require.NoError(t, b.Assign(a, scores[i]))
	}
}

func TestBuilder_HappyPath(t *testing.T) {
	b := builderAtAbilities(t)
	assignAll(t, b, []int{8, 15, 13, 12, 10, 14})

	pc, err := b.ConfirmAbilities()
	require.NoError(t, err)
	assert.Equal(t, StageAdventureStart, b.Stage())
	assert.Equal(t, "Tasslehoff", pc.Name)
	assert.Equal(t, "Kender", pc.Race)
	assert.True(t, pc.IsComplete)
	assert.Equal(t, 15, pc.Stats.Dexterity)
	assert.Equal(t, 2, pc.Modifiers.Dexterity)
	assert.Equal(t, -1, pc.Modifiers.Strength)
}

func TestBuilder_NameTooShort(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.SelectRace("Human"))
	b.SetName(" R ")
	assert.False(t, b.CanContinue())

	err := b.ConfirmIdentity()
	require.Error(t, err)
	assert.True(t, errors.Is(err, gerrors.ErrValidation))
	assert.Equal(t, StageNameAndRaceConfirm, b.Stage())

	b.SetName("Raistlin")
	assert.True(t, b.CanContinue())
	require.NoError(t, b.ConfirmIdentity())
}

func TestBuilder_SelectRaceRequired(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.SelectRace("  "))
	assert.Equal(t, StageSpeciesSelection, b.Stage())

	b.SetName("Sturm")
	assert.Error(t, b.ConfirmIdentity(), "identity cannot be confirmed before a race is picked")
}

func TestBuilder_AssignRejectsOffArrayScores(t *testing.T) {
	b := builderAtAbilities(t)
	err := b.Assign(Strength, 18)
	require.Error(t, err)
	assert.True(t, gerrors.Is(err, gerrors.CodeInvalidArgument))
	assert.Empty(t, b.Scores())
}

func TestBuilder_AssignOutOfStage(t *testing.T) {
	b := NewBuilder()
	err := b.Assign(Strength, 15)
	require.Error(t, err)
	assert.True(t, gerrors.Is(err, gerrors.CodeFailedPrecondition))
}

func TestBuilder_ConfirmAbilitiesFailureKeepsState(t *testing.T) {
	b := builderAtAbilities(t)
	assignAll(t, b, []int{15, 15, 13, 12, 10, 8})

	pc, err := b.ConfirmAbilities()
	require.Error(t, err)
	assert.Nil(t, pc)
	assert.Equal(t, StageAbilityScoreAssignment, b.Stage())
	assert.Len(t, b.Scores(), 6)

	var verr *gerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("duplicates"))
	assert.True(t, verr.HasField("missing"))
	assert.Contains(t, verr.Fields["duplicates"][0], "15")
	assert.Contains(t, verr.Fields["missing"][0], "14")
}

func TestBuilder_UnassignAndCancel(t *testing.T) {
	b := builderAtAbilities(t)
	assignAll(t, b, []int{15, 14, 13, 12, 10, 8})
	b.Unassign(Wisdom)

	_, err := b.ConfirmAbilities()
	var verr *gerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"wisdom"}, verr.Fields["unassigned"])

	b.Cancel()
	assert.Equal(t, StageSpeciesSelection, b.Stage())
	assert.Equal(t, "Tasslehoff", b.Name(), "form fields survive a cancel")
	assert.Equal(t, "Kender", b.Race())
}

func TestValidateStandardArray(t *testing.T) {
	full := func(vals ...int) map[Ability]int {
		m := make(map[Ability]int)
		for i, v := range vals {
			m[Abilities[i]] = v
		}
		return m
	}

	tests := []struct {
		name   string
		scores map[Ability]int
		fields []string
	}{
		{"exact permutation", full(12, 8, 15, 10, 14, 13), nil},
		{"empty", map[Ability]int{}, []string{"unassigned"}},
		{"partial", full(15, 14, 13), []string{"unassigned"}},
		{"duplicate", full(15, 14, 13, 12, 10, 10), []string{"duplicates", "missing"}},
		{"foreign value", full(15, 14, 13, 12, 10, 9), []string{"missing", "invalid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStandardArray(tt.scores)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *gerrors.ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.fields {
				assert.True(t, verr.HasField(f), "expected field %s in %v", f, verr.Fields)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}
