package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NamePlaceholder is replaced by the player character's name when an
// entry's narrative is rendered.
const NamePlaceholder = "{name}"

// Axis is one of the character dimensions conditional text can key on.
type Axis string

const (
	AxisSpecies    Axis = "species"
	AxisClass      Axis = "class"
	AxisSubclass   Axis = "subclass"
	AxisBackground Axis = "background"
)

// Axes lists every axis in the fixed order fragments are composed in.
var Axes = []Axis{AxisSpecies, AxisClass, AxisSubclass, AxisBackground}

// ParseAxis maps an authored axis name to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch Axis(strings.ToLower(strings.TrimSpace(s))) {
	case AxisSpecies:
		return AxisSpecies, true
	case AxisClass:
		return AxisClass, true
	case AxisSubclass:
		return AxisSubclass, true
	case AxisBackground:
		return AxisBackground, true
	}
	return "", false
}

// Document is the on-disk shape of one entry data set.
type Document struct {
	Entries map[string]*Entry `json:"entries"`
}

// Entry is one unit of authored narrative.
type Entry struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Narrative             string          `json:"narrative"`
	NarrativeContinuation string          `json:"narrative_continuation,omitempty"`
	ConditionalText       ConditionalText `json:"conditional_text,omitempty"`
	Music                 string          `json:"music,omitempty"`
	Choices               []Choice        `json:"choices,omitempty"`
}

// IsEnding reports whether the entry offers no way forward.
func (e *Entry) IsEnding() bool {
	return len(e.Choices) == 0
}

// ConditionalText maps axis -> axis value -> fragment. Keys that are not
// one of Axes decode as-is; composition ignores them and Validate reports them.
type ConditionalText map[Axis]map[string]string

// Fragment returns the text authored for the axis value, if any.
func (ct ConditionalText) Fragment(axis Axis, value string) (string, bool) {
	values, ok := ct[axis]
	if !ok {
		return "", false
	}
	text, ok := values[value]
	return text, ok
}

// Choice is a selectable option on an entry.
type Choice struct {
	Text        string      `json:"text"`
	Sets        Sets        `json:"sets,omitempty"`
	SkillCheck  *SkillCheck `json:"skill_check,omitempty"`
	Destination string      `json:"destination,omitempty"`
}

// IsTerminal reports whether selecting the choice leads nowhere.
func (c *Choice) IsTerminal() bool {
	return c.SkillCheck == nil && c.Destination == ""
}

// SkillCheck gates progress on a d20 roll.
type SkillCheck struct {
	Skill   string `json:"skill"`
	DC      int    `json:"dc"`
	Success string `json:"success"`
	Failure string `json:"failure"`
}

// Assignment is one key/value pair of a choice's sets.
type Assignment struct {
	Key   string
	Value json.RawMessage
}

// String returns the value as a string when it is a JSON string, or the raw
// JSON otherwise.
func (a Assignment) String() string {
	var s string
	if err := json.Unmarshal(a.Value, &s); err == nil {
		return s
	}
	return string(a.Value)
}

// Sets is the ordered list of state assignments a choice performs.
// Authoring order is preserved so assignments apply in the order written.
type Sets []Assignment

// UnmarshalJSON decodes a JSON object token by token to keep key order.
func (s *Sets) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sets: expected object, got %v", tok)
	}

	var out Sets
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sets: expected string key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("sets: value for %q: %w", key, err)
		}
		out = append(out, Assignment{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes the assignments back as an object in order.
func (s Sets) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(a.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(a.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value assigned to key, if present.
func (s Sets) Get(key string) (Assignment, bool) {
	for _, a := range s {
		if a.Key == key {
			return a, true
		}
	}
	return Assignment{}, false
}
