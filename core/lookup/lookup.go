// Package lookup fetches verse text and surrounding context for references.
package lookup

import (
	"fmt"

	"github.com/FocuswithJustin/versedistance/core/corpus"
)

// Direction selects which side of a verse Context reads from.
type Direction int

// Direction constants.
const (
	Backward Direction = iota
	Forward
)

// String returns "backward" or "forward".
func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "backward"/"before" or "forward"/"after".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "backward", "before":
		return Backward, nil
	case "forward", "after":
		return Forward, nil
	}
	return 0, fmt.Errorf("unknown context direction %q (want backward or forward)", s)
}

// VerseWithText is a resolved verse together with its text.
type VerseWithText struct {
	corpus.Reference
	Ordinal corpus.Ordinal `json:"ordinal"`
	Text    string         `json:"text"`
}

// Service answers verse and context queries against an index.
type Service struct {
	idx *corpus.Index
}

// New creates a lookup service over idx.
func New(idx *corpus.Index) *Service {
	return &Service{idx: idx}
}

// Fetch resolves ref and returns its text. The returned reference uses the
// corpus spelling of the book.
func (s *Service) Fetch(ref corpus.Reference) (VerseWithText, error) {
	o, err := s.idx.Resolve(ref)
	if err != nil {
		return VerseWithText{}, err
	}
	return s.at(o)
}

// Context returns up to count verses strictly before (Backward) or after
// (Forward) ref. Backward context is ordered nearest first; forward context is
// in reading order. Fewer than count verses are returned at the corpus edges.
// A non-positive count returns an empty result without resolving ref.
func (s *Service) Context(ref corpus.Reference, count int, dir Direction) ([]VerseWithText, error) {
	if count <= 0 {
		return []VerseWithText{}, nil
	}
	// Keeps ordinal arithmetic from overflowing.
	if n := s.idx.Len(); count > n {
		count = n
	}
	o, err := s.idx.Resolve(ref)
	if err != nil {
		return nil, err
	}

	var verses []corpus.Verse
	first := o + 1
	if dir == Backward {
		first = o - corpus.Ordinal(count)
		verses = s.idx.Range(first, o-1)
		if first < 1 {
			first = 1
		}
	} else {
		verses = s.idx.Range(first, o+corpus.Ordinal(count))
	}

	out := make([]VerseWithText, len(verses))
	for i, v := range verses {
		out[i] = VerseWithText{Reference: v.Reference, Ordinal: first + corpus.Ordinal(i), Text: v.Text}
	}
	if dir == Backward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// Surrounding returns the verse at ref with before verses of leading context
// and after verses of trailing context, all in reading order.
func (s *Service) Surrounding(ref corpus.Reference, before, after int) ([]VerseWithText, error) {
	target, err := s.Fetch(ref)
	if err != nil {
		return nil, err
	}
	lead, err := s.Context(ref, before, Backward)
	if err != nil {
		return nil, err
	}
	trail, err := s.Context(ref, after, Forward)
	if err != nil {
		return nil, err
	}

	out := make([]VerseWithText, 0, len(lead)+1+len(trail))
	for i := len(lead) - 1; i >= 0; i-- {
		out = append(out, lead[i])
	}
	out = append(out, target)
	return append(out, trail...), nil
}

func (s *Service) at(o corpus.Ordinal) (VerseWithText, error) {
	v, err := s.idx.VerseAt(o)
	if err != nil {
		return VerseWithText{}, err
	}
	return VerseWithText{Reference: v.Reference, Ordinal: o, Text: v.Text}, nil
}
