package actor

import (
	"fmt"
	"sort"
	"strings"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
)

// Stage is a step of character creation.
type Stage int

const (
	StageSpeciesSelection Stage = iota
	StageNameAndRaceConfirm
	StageAbilityScoreAssignment
	StageAdventureStart
)

func (s Stage) String() string {
	switch s {
	case StageSpeciesSelection:
		return "species_selection"
	case StageNameAndRaceConfirm:
		return "name_and_race_confirm"
	case StageAbilityScoreAssignment:
		return "ability_score_assignment"
	case StageAdventureStart:
		return "adventure_start"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Builder walks a new character through race, name and ability scores.
// Failed confirmations leave the builder untouched.
type Builder struct {
	stage  Stage
	name   string
	race   string
	scores map[Ability]int
}

// NewBuilder starts at species selection.
func NewBuilder() *Builder {
	return &Builder{
		stage:  StageSpeciesSelection,
		scores: make(map[Ability]int),
	}
}

// Stage returns the current step.
func (b *Builder) Stage() Stage { return b.stage }

// Name returns the name typed so far.
func (b *Builder) Name() string { return b.name }

// Race returns the selected race.
func (b *Builder) Race() string { return b.race }

// Scores returns a copy of the assignments made so far.
func (b *Builder) Scores() map[Ability]int {
	out := make(map[Ability]int, len(b.scores))
	for k, v := range b.scores {
		out[k] = v
	}
	return out
}

// SelectRace picks a race and moves to name confirmation. Picking again
// from the confirmation step replaces the race.
func (b *Builder) SelectRace(race string) error {
	if b.stage != StageSpeciesSelection && b.stage != StageNameAndRaceConfirm {
		return gerrors.FailedPreconditionf("cannot select a race during %s", b.stage)
	}
	race = strings.TrimSpace(race)
	if race == "" {
		return gerrors.InvalidArgumentf("race is required")
	}
	b.race = race
	b.stage = StageNameAndRaceConfirm
	return nil
}

// SetName records the name field. It does not validate; CanContinue does.
func (b *Builder) SetName(name string) {
	b.name = name
}

// CanContinue reports whether ConfirmIdentity would succeed, which is what
// enables the Continue control.
func (b *Builder) CanContinue() bool {
	return b.stage == StageNameAndRaceConfirm && ValidName(b.name) && b.race != ""
}

// ConfirmIdentity moves on to ability scores once name and race are valid.
func (b *Builder) ConfirmIdentity() error {
	if b.stage != StageNameAndRaceConfirm {
		return gerrors.FailedPreconditionf("cannot confirm identity during %s", b.stage)
	}
	v := gerrors.NewValidationError()
	if !ValidName(b.name) {
		v.AddFieldErrorf("name", "must be at least %d characters", MinNameLength)
	}
	if b.race == "" {
		v.AddFieldError("race", "is required")
	}
	if err := v.ToError(); err != nil {
		return err
	}
	b.stage = StageAbilityScoreAssignment
	return nil
}

// Assign sets one ability's score. The score must come from the standard
// array; uniqueness is only enforced by ConfirmAbilities so players can
// shuffle values around.
func (b *Builder) Assign(a Ability, score int) error {
	if b.stage != StageAbilityScoreAssignment {
		return gerrors.FailedPreconditionf("cannot assign scores during %s", b.stage)
	}
	if !inStandardArray(score) {
		return gerrors.InvalidArgumentf("%d is not in the standard array %v", score, StandardArray)
	}
	b.scores[a] = score
	return nil
}

// Unassign clears one ability.
func (b *Builder) Unassign(a Ability) {
	delete(b.scores, a)
}

// ConfirmAbilities finishes the character. On failure the returned
// *ValidationError names unassigned abilities and duplicate or missing
// values, and nothing changes.
func (b *Builder) ConfirmAbilities() (*PlayerCharacter, error) {
	if b.stage != StageAbilityScoreAssignment {
		return nil, gerrors.FailedPreconditionf("cannot confirm abilities during %s", b.stage)
	}
	if err := ValidateStandardArray(b.scores); err != nil {
		return nil, err
	}

	var stats Stats5e
	for _, a := range Abilities {
		stats.Set(a, b.scores[a])
	}
	pc := &PlayerCharacter{
		Name:       strings.TrimSpace(b.name),
		Race:       b.race,
		IsComplete: true,
	}
	pc.SetStats(stats)
	b.stage = StageAdventureStart
	return pc, nil
}

// Cancel abandons the flow. Typed fields are kept for a retry.
func (b *Builder) Cancel() {
	b.stage = StageSpeciesSelection
}

// ValidateStandardArray checks that every ability has a score and the scores
// are exactly the standard array, each value used once.
func ValidateStandardArray(scores map[Ability]int) error {
	v := gerrors.NewValidationError()

	var unassigned []string
	for _, a := range Abilities {
		if _, ok := scores[a]; !ok {
			unassigned = append(unassigned, string(a))
		}
	}
	if len(unassigned) > 0 {
		v.AddFieldErrorf("unassigned", "%s", strings.Join(unassigned, ", "))
	}

	counts := make(map[int]int)
	for _, a := range Abilities {
		if s, ok := scores[a]; ok {
			counts[s]++
		}
	}
	var dupes, missing, foreign []int
	for _, want := range StandardArray {
		switch n := counts[want]; {
		case n == 0:
			missing = append(missing, want)
		case n > 1:
			dupes = append(dupes, want)
		}
	}
	for s := range counts {
		if !inStandardArray(s) {
			foreign = append(foreign, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(foreign)))

	if len(dupes) > 0 {
		v.AddFieldErrorf("duplicates", "%s", joinInts(dupes))
	}
	// Missing values are only interesting once every ability has a score;
	// before that they are implied by the unassigned list.
	if len(missing) > 0 && len(unassigned) == 0 {
		v.AddFieldErrorf("missing", "%s", joinInts(missing))
	}
	if len(foreign) > 0 {
		v.AddFieldErrorf("invalid", "%s not in the standard array", joinInts(foreign))
	}
	return v.ToError()
}

func inStandardArray(score int) bool {
	for _, s := range StandardArray {
		if s == score {
			return true
		}
	}
	return false
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
