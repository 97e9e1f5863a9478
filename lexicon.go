package textdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Polarity is a lexicon category. Scoring only interprets positive and
// negative; finer emotion categories pass through ingestion untouched.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
)

// polar reports whether the category carries scoring polarity.
func (p Polarity) polar() bool {
	return p == PolarityPositive || p == PolarityNegative
}

// A Lexicon is a read-only mapping from token string to polarity
// category, sourced externally.
type Lexicon struct {
	Name    string
	entries map[string]Polarity
}

// NewLexicon builds a lexicon from an in-memory mapping.
func NewLexicon(name string, entries map[string]Polarity) *Lexicon {
	lex := &Lexicon{Name: name, entries: make(map[string]Polarity, len(entries))}
	for tok, pol := range entries {
		lex.entries[strings.ToLower(tok)] = pol
	}
	return lex
}

// Polarity returns the category for a token and whether the token is in
// the lexicon. Lookup is case-insensitive.
func (l *Lexicon) Polarity(token string) (Polarity, bool) {
	p, ok := l.entries[strings.ToLower(token)]
	return p, ok
}

// Len returns the number of lexicon entries.
func (l *Lexicon) Len() int { return len(l.entries) }

// LoadLexicon reads a lexicon from a CSV file with a header row naming
// a word column ("word" or "token") and a category column ("sentiment",
// "polarity" or "category"). Categories beyond positive/negative are
// kept so emotion lexicons ingest cleanly, even though scoring ignores
// them. When a word is listed under several categories, a polar entry
// always wins over a non-polar one, so emotion rows never mask a word's
// polarity.
func LoadLexicon(name, path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer f.Close()
	return ReadLexicon(name, f)
}

// ReadLexicon reads lexicon CSV rows from r. See LoadLexicon for the
// expected column layout.
func ReadLexicon(name string, r io.Reader) (*Lexicon, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading lexicon header: %w", err)
	}

	wordCol, catCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "word", "token":
			wordCol = i
		case "sentiment", "polarity", "category":
			catCol = i
		}
	}
	if wordCol < 0 || catCol < 0 {
		return nil, fmt.Errorf("lexicon %s: header must name a word column and a category column", name)
	}

	entries := make(map[string]Polarity)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading lexicon row: %w", err)
		}
		word := strings.ToLower(strings.TrimSpace(field(rec, wordCol)))
		cat := strings.ToLower(strings.TrimSpace(field(rec, catCol)))
		if word == "" || cat == "" {
			continue
		}
		if existing, seen := entries[word]; seen && existing.polar() && !Polarity(cat).polar() {
			continue
		}
		entries[word] = Polarity(cat)
	}

	return &Lexicon{Name: name, entries: entries}, nil
}
