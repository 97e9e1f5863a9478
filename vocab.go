package textdata

import "sort"

// A Vocabulary is a frozen mapping from distinct token string to a
// unique, contiguous integer index. It is built once per corpus and
// never mutated afterwards.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// Index returns the integer index for a term and whether the term is in
// the vocabulary.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at index i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int { return len(v.terms) }

// Terms returns a copy of the index-ordered term list.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// VocabConfig controls document-frequency pruning during vocabulary
// construction.
type VocabConfig struct {
	// MinDocFreq drops terms appearing in fewer than this many
	// documents. Zero or one disables the lower bound.
	MinDocFreq int
	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents. Zero or negative disables the upper bound.
	MaxDocRatio float64
}

// BuildVocabulary collects the distinct tokens across the tokenized
// corpus, prunes terms outside the configured document-frequency
// thresholds, and freezes the surviving terms into an indexed
// vocabulary. Documents left with zero surviving tokens are excluded
// and their ids reported, so downstream components can drop them
// consistently. Indices are assigned over the sorted term list, making
// the mapping identical across runs for a fixed corpus and thresholds.
//
// Pruning runs to a fixpoint: dropping empty documents shrinks the
// corpus the max-ratio bound is measured against, which can expose
// further too-frequent terms, so the thresholds are re-applied until
// nothing changes. Re-running BuildVocabulary on the kept documents
// with the same thresholds therefore yields the same vocabulary and
// drops nothing further.
func BuildVocabulary(docs []TokenizedDocument, cfg VocabConfig) (vocab *Vocabulary, kept []TokenizedDocument, dropped []string, err error) {
	kept = docs
	for {
		docFreq := make(map[string]int)
		for _, d := range kept {
			seen := make(map[string]bool, len(d.Tokens))
			for _, tok := range d.Tokens {
				if !seen[tok] {
					seen[tok] = true
					docFreq[tok]++
				}
			}
		}

		maxDocs := -1
		if cfg.MaxDocRatio > 0 {
			maxDocs = int(cfg.MaxDocRatio * float64(len(kept)))
		}

		surviving := make(map[string]bool, len(docFreq))
		for term, df := range docFreq {
			if cfg.MinDocFreq > 1 && df < cfg.MinDocFreq {
				continue
			}
			if maxDocs >= 0 && df > maxDocs {
				continue
			}
			surviving[term] = true
		}
		if len(surviving) == 0 {
			return nil, nil, nil, &EmptyVocabularyError{MinDocFreq: cfg.MinDocFreq, MaxDocRatio: cfg.MaxDocRatio}
		}

		next := make([]TokenizedDocument, 0, len(kept))
		changed := len(surviving) != len(docFreq)
		for _, d := range kept {
			pruned := make([]string, 0, len(d.Tokens))
			for _, tok := range d.Tokens {
				if surviving[tok] {
					pruned = append(pruned, tok)
				}
			}
			if len(pruned) == 0 {
				dropped = append(dropped, d.ID)
				changed = true
				continue
			}
			next = append(next, TokenizedDocument{ID: d.ID, Tokens: pruned})
		}
		kept = next

		if !changed {
			terms := make([]string, 0, len(surviving))
			for term := range surviving {
				terms = append(terms, term)
			}
			sort.Strings(terms)

			index := make(map[string]int, len(terms))
			for i, term := range terms {
				index[term] = i
			}
			return &Vocabulary{index: index, terms: terms}, kept, dropped, nil
		}
	}
}
