package story

import (
	"fmt"
	"sort"
)

// Severity grades a validation problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is one authoring issue found by Validate.
type Problem struct {
	EntryID  string
	Choice   int // -1 when the problem is on the entry itself
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	if p.Choice >= 0 {
		return fmt.Sprintf("%s: entry %q choice %d: %s", p.Severity, p.EntryID, p.Choice, p.Message)
	}
	return fmt.Sprintf("%s: entry %q: %s", p.Severity, p.EntryID, p.Message)
}

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// StartEntry must resolve; defaults to DefaultStartEntry.
	StartEntry string
	// KnownSkill reports whether a skill name maps to an ability. Nil skips
	// the check.
	KnownSkill func(string) bool
}

// Validate walks every entry and reports dangling references and other
// authoring mistakes. Problems are sorted by entry id then choice.
func Validate(s *Store, opts ValidateOptions) []Problem {
	if opts.StartEntry == "" {
		opts.StartEntry = DefaultStartEntry
	}

	var problems []Problem
	add := func(id string, choice int, sev Severity, format string, args ...interface{}) {
		problems = append(problems, Problem{
			EntryID:  id,
			Choice:   choice,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if !s.Has(opts.StartEntry) {
		add(opts.StartEntry, -1, SeverityError, "start entry does not exist")
	}

	for _, set := range []map[string]*Entry{s.character, s.adventure} {
		for key, e := range set {
			if e.ID != key {
				add(key, -1, SeverityError, "id %q does not match its key", e.ID)
			}
			if e.Title == "" {
				add(key, -1, SeverityWarning, "missing title")
			}
			for axis := range e.ConditionalText {
				if _, ok := ParseAxis(string(axis)); !ok {
					add(key, -1, SeverityWarning, "unknown conditional_text axis %q", axis)
				}
			}
			for i, c := range e.Choices {
				if c.Text == "" {
					add(key, i, SeverityWarning, "missing text")
				}
				if c.SkillCheck != nil {
					sc := c.SkillCheck
					if c.Destination != "" {
						add(key, i, SeverityWarning, "destination %q is ignored because the choice has a skill check", c.Destination)
					}
					if opts.KnownSkill != nil && !opts.KnownSkill(sc.Skill) {
						add(key, i, SeverityWarning, "unknown skill %q falls back to wisdom", sc.Skill)
					}
					if sc.Success == "" || sc.Failure == "" {
						add(key, i, SeverityError, "skill check needs both success and failure destinations")
					}
					for _, dest := range []string{sc.Success, sc.Failure} {
						if dest != "" && !s.Has(dest) {
							add(key, i, SeverityError, "skill check destination %q does not exist", dest)
						}
					}
					continue
				}
				if c.Destination != "" && !s.Has(c.Destination) {
					add(key, i, SeverityError, "destination %q does not exist", c.Destination)
				}
			}
		}
	}

	for key := range s.adventure {
		if _, ok := s.character[key]; ok {
			add(key, -1, SeverityWarning, "adventure entry is shadowed by the character-creation entry with the same id")
		}
	}

	sort.SliceStable(problems, func(i, j int) bool {
		if problems[i].EntryID != problems[j].EntryID {
			return problems[i].EntryID < problems[j].EntryID
		}
		return problems[i].Choice < problems[j].Choice
	})
	return problems
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
