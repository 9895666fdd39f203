package story

import (
	"context"
	"encoding/json"
	"fmt"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
)

// DefaultStartEntry is where a new game begins.
const DefaultStartEntry = "species_selection"

// Store indexes the character-creation and adventure data sets. It is
// immutable once loaded and safe for concurrent reads.
type Store struct {
	character map[string]*Entry
	adventure map[string]*Entry
}

// NewStore builds a store from already-decoded data sets. Entries with an
// empty id take their key.
func NewStore(character, adventure *Document) *Store {
	s := &Store{
		character: index(character),
		adventure: index(adventure),
	}
	return s
}

func index(doc *Document) map[string]*Entry {
	out := make(map[string]*Entry)
	if doc == nil {
		return out
	}
	for key, e := range doc.Entries {
		if e == nil {
			continue
		}
		if e.ID == "" {
			e.ID = key
		}
		out[key] = e
	}
	return out
}

// Load fetches and decodes both data sets. Any failure is a DATA_LOAD error
// and no store is returned.
func Load(ctx context.Context, character, adventure Source) (*Store, error) {
	charDoc, err := fetchDocument(ctx, character)
	if err != nil {
		return nil, err
	}
	advDoc, err := fetchDocument(ctx, adventure)
	if err != nil {
		return nil, err
	}
	return NewStore(charDoc, advDoc), nil
}

func fetchDocument(ctx context.Context, src Source) (*Document, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, gerrors.WrapWithCodef(err, gerrors.CodeDataLoad, "failed to load %s", src.Name())
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, gerrors.WrapWithCodef(err, gerrors.CodeDataLoad, "failed to parse %s", src.Name())
	}
	return doc, nil
}

// ParseDocument decodes one entry data set.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	if doc.Entries == nil {
		return nil, fmt.Errorf("document has no entries object")
	}
	return &doc, nil
}

// Resolve looks an identifier up in the character-creation set first and the
// adventure set second.
func (s *Store) Resolve(id string) (*Entry, error) {
	if e, ok := s.character[id]; ok {
		return e, nil
	}
	if e, ok := s.adventure[id]; ok {
		return e, nil
	}
	return nil, gerrors.EntryNotFound(id)
}

// Has reports whether id resolves in either set.
func (s *Store) Has(id string) bool {
	_, err := s.Resolve(id)
	return err == nil
}

// Len returns the number of entries in each set.
func (s *Store) Len() (character, adventure int) {
	return len(s.character), len(s.adventure)
}
