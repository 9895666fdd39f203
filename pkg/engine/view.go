package engine

import (
	"github.com/google/uuid"

	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/audio"
	"github.com/iRKakashi/dragon-lance-web/pkg/conditionals"
	"github.com/iRKakashi/dragon-lance-web/pkg/skillcheck"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

// View is everything a presentation layer needs to draw the current screen.
// It is a value; receivers may keep it.
type View struct {
	SessionID    uuid.UUID               `json:"sessionId"`
	EntryID      string                  `json:"entryId"`
	Title        string                  `json:"title"`
	Narrative    string                  `json:"narrative"`
	Continuation string                  `json:"continuation,omitempty"`
	Fragments    []conditionals.Fragment `json:"fragments,omitempty"`
	Choices      []ChoiceView            `json:"choices"`
	IsEnding     bool                    `json:"isEnding"`
	InputLocked  bool                    `json:"inputLocked"`
	Character    CharacterSummary        `json:"character"`
	Mode         audio.Mode              `json:"mode"`
	MusicEnabled bool                    `json:"musicEnabled"`
	Modal        ModalKind               `json:"modal,omitempty"`
	SkillCheck   *SkillCheckView         `json:"skillCheck,omitempty"`
	Builder      *BuilderView            `json:"builder,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// ChoiceView is one selectable option.
type ChoiceView struct {
	Index      int               `json:"index"`
	Text       string            `json:"text"`
	SkillCheck *story.SkillCheck `json:"skillCheck,omitempty"`
	Terminal   bool              `json:"terminal,omitempty"`
}

// CharacterSummary is the sidebar description of the player.
type CharacterSummary struct {
	Name                string       `json:"name"`
	Race                string       `json:"race,omitempty"`
	Species             string       `json:"species,omitempty"`
	Class               string       `json:"class,omitempty"`
	ClassIcon           string       `json:"classIcon,omitempty"`
	Subclass            string       `json:"subclass,omitempty"`
	SubclassDescription string       `json:"subclassDescription,omitempty"`
	Background          string       `json:"background,omitempty"`
	ShowProgress        bool         `json:"showProgress"`
	Level               int          `json:"level"`
	XP                  int          `json:"xp"`
	Inventory           []string     `json:"inventory,omitempty"`
	Complete            bool         `json:"complete"`
	Sheet               *actor.Sheet `json:"sheet,omitempty"`
}

// SkillCheckView describes the open skill check modal.
type SkillCheckView struct {
	Skill   string             `json:"skill"`
	Ability actor.Ability      `json:"ability"`
	DC      int                `json:"dc"`
	Result  *skillcheck.Result `json:"result,omitempty"`
}

// BuilderView describes the open character builder.
type BuilderView struct {
	Stage       string                `json:"stage"`
	Name        string                `json:"name"`
	Race        string                `json:"race"`
	Scores      map[actor.Ability]int `json:"scores"`
	CanContinue bool                  `json:"canContinue"`
	Error       string                `json:"error,omitempty"`
}

// render builds the view from the current state. Callers hold the lock.
func (e *Engine) render() View {
	v := View{
		MusicEnabled: e.gs.MusicEnabled,
		Mode:         e.tracker.Mode(),
		InputLocked:  e.locked || e.modal != nil,
		Character:    e.summary(),
	}
	v.SessionID = e.gs.SessionID
	if e.lastErr != nil {
		v.Error = e.lastErr.Error()
		return v
	}
	if e.entry == nil {
		return v
	}

	values := map[string]string{"name": e.pc.DisplayName()}
	sub := func(s string) string { return e.subst.Apply(s, values) }

	v.EntryID = e.entry.ID
	v.Title = sub(e.entry.Title)
	v.Narrative = sub(e.entry.Narrative)
	v.Continuation = sub(e.entry.NarrativeContinuation)
	v.IsEnding = e.entry.IsEnding()

	for _, f := range conditionals.Compose(e.entry, e.gs) {
		f.Text = sub(f.Text)
		v.Fragments = append(v.Fragments, f)
	}

	v.Choices = make([]ChoiceView, len(e.entry.Choices))
	for i := range e.entry.Choices {
		c := &e.entry.Choices[i]
		cv := ChoiceView{Index: i, Text: sub(c.Text), Terminal: c.IsTerminal()}
		if c.SkillCheck != nil {
			sc := *c.SkillCheck
			cv.SkillCheck = &sc
		}
		v.Choices[i] = cv
	}

	if e.modal != nil {
		v.Modal = e.modal.kind
		switch e.modal.kind {
		case ModalSkillCheck:
			v.SkillCheck = &SkillCheckView{
				Skill:   e.modal.check.Skill,
				Ability: skillcheck.AbilityFor(e.modal.check.Skill),
				DC:      e.modal.check.DC,
			}
			if e.modal.result != nil {
				r := *e.modal.result
				v.SkillCheck.Result = &r
			}
		case ModalBuilder:
			v.Builder = &BuilderView{
				Stage:       e.builder.Stage().String(),
				Name:        e.builder.Name(),
				Race:        e.builder.Race(),
				Scores:      e.builder.Scores(),
				CanContinue: e.builder.CanContinue(),
			}
			if e.modal.err != nil {
				v.Builder.Error = e.modal.err.Error()
			}
		}
	}
	return v
}

func (e *Engine) summary() CharacterSummary {
	s := CharacterSummary{
		Name:     e.pc.DisplayName(),
		Race:     e.pc.Race,
		Level:    e.gs.Level,
		XP:       e.gs.XP,
		Complete: e.pc.IsComplete,
	}
	if len(e.gs.Inventory) > 0 {
		s.Inventory = append([]string(nil), e.gs.Inventory...)
	}
	if v, ok := e.gs.AxisValue(story.AxisSpecies); ok {
		s.Species = v
	}
	if v, ok := e.gs.AxisValue(story.AxisClass); ok {
		s.Class = v
		s.ClassIcon = actor.ClassIcon(v)
	}
	if v, ok := e.gs.AxisValue(story.AxisSubclass); ok {
		s.Subclass = v
		s.SubclassDescription = actor.SubclassDescription(s.Class, v)
	}
	if v, ok := e.gs.AxisValue(story.AxisBackground); ok {
		s.Background = v
	}
	s.ShowProgress = e.gs.HasIdentity()

	if e.pc.IsComplete {
		sheet, err := e.pc.Sheet()
		if err != nil {
			e.log.Warn("character sheet unavailable", "error", err)
		} else {
			s.Sheet = &sheet
		}
	}
	return s
}
