package textdata

import "sort"

// A Document is one row of the input corpus: a short message with an
// identifier, an optional keyword/location, and a binary outcome label.
// Documents are immutable once loaded.
type Document struct {
	ID       string // unique, stable identifier
	Text     string // raw message text
	Keyword  string // optional external category
	Location string // optional free-text location
	Target   int    // binary outcome label (0/1)
}

// A TokenizedDocument pairs a document id with the ordered token strings
// produced by a Tokenizer. Position is implied by slice index.
type TokenizedDocument struct {
	ID     string
	Tokens []string
}

// A SkippedDocument records a row excluded during corpus loading,
// together with the reason it was excluded.
type SkippedDocument struct {
	ID     string
	Reason string
}

// A ScoreSet holds one per-document score series produced by a scoring
// method. Documents with no score are absent from the set, which is not
// the same as a score of zero.
type ScoreSet struct {
	Method string
	scores map[string]float64
	order  []string
}

// NewScoreSet creates an empty score series for the named method.
func NewScoreSet(method string) *ScoreSet {
	return &ScoreSet{
		Method: method,
		scores: make(map[string]float64),
	}
}

// Add records a score for a document id. Adding the same id twice
// overwrites the earlier value without duplicating it in the order.
func (s *ScoreSet) Add(id string, score float64) {
	if _, seen := s.scores[id]; !seen {
		s.order = append(s.order, id)
	}
	s.scores[id] = score
}

// Score returns the score for a document id and whether one exists.
func (s *ScoreSet) Score(id string) (float64, bool) {
	v, ok := s.scores[id]
	return v, ok
}

// IDs returns the scored document ids in insertion order.
func (s *ScoreSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of scored documents.
func (s *ScoreSet) Len() int {
	return len(s.scores)
}

// Values returns the scores for the given ids, skipping ids that have
// no score in this set.
func (s *ScoreSet) Values(ids []string) []float64 {
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		if v, ok := s.scores[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// SortedIDs returns the scored document ids in lexicographic order.
func (s *ScoreSet) SortedIDs() []string {
	ids := s.IDs()
	sort.Strings(ids)
	return ids
}
