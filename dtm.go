package textdata

import (
	"sort"

	"github.com/james-bowman/sparse"
)

// A DocTermVector maps vocabulary index to a non-negative term count
// for one document. Absent entries are zero.
type DocTermVector map[int]int

// Sum returns the total token count in the vector.
func (v DocTermVector) Sum() int {
	total := 0
	for _, c := range v {
		total += c
	}
	return total
}

// A DTM is a sparse document-term matrix over a frozen vocabulary.
// Rows (documents) are aligned with DocIDs.
type DTM struct {
	vocab   *Vocabulary
	DocIDs  []string
	Vectors []DocTermVector
}

// BuildDTM converts each tokenized document into a sparse count vector
// over the frozen vocabulary. Out-of-vocabulary tokens contribute
// nothing; this is not an error.
func BuildDTM(vocab *Vocabulary, docs []TokenizedDocument) *DTM {
	m := &DTM{
		vocab:   vocab,
		DocIDs:  make([]string, 0, len(docs)),
		Vectors: make([]DocTermVector, 0, len(docs)),
	}
	for _, d := range docs {
		vec := make(DocTermVector)
		for _, tok := range d.Tokens {
			if i, ok := vocab.Index(tok); ok {
				vec[i]++
			}
		}
		m.DocIDs = append(m.DocIDs, d.ID)
		m.Vectors = append(m.Vectors, vec)
	}
	return m
}

// Vocab returns the frozen vocabulary the matrix was built over.
func (m *DTM) Vocab() *Vocabulary { return m.vocab }

// Len returns the number of documents in the matrix.
func (m *DTM) Len() int { return len(m.DocIDs) }

// Vector returns the count vector for a document id.
func (m *DTM) Vector(id string) (DocTermVector, bool) {
	for i, docID := range m.DocIDs {
		if docID == id {
			return m.Vectors[i], true
		}
	}
	return nil, false
}

// TermDocMatrix lays the counts out as a terms-by-documents sparse
// matrix, the orientation the topic-model estimator consumes (documents
// are columns).
func (m *DTM) TermDocMatrix() *sparse.CSR {
	dok := sparse.NewDOK(m.vocab.Size(), len(m.Vectors))
	for j, vec := range m.Vectors {
		for i, count := range vec {
			dok.Set(i, j, float64(count))
		}
	}
	return dok.ToCSR()
}

// TermCounts returns the corpus-wide count for every vocabulary term,
// indexed by vocabulary index.
func (m *DTM) TermCounts() []int {
	counts := make([]int, m.vocab.Size())
	for _, vec := range m.Vectors {
		for i, c := range vec {
			counts[i] += c
		}
	}
	return counts
}

// TopTerms returns the n most frequent vocabulary terms in the matrix.
func (m *DTM) TopTerms(n int) []TermWeight {
	counts := m.TermCounts()
	out := make([]TermWeight, 0, len(counts))
	for i, c := range counts {
		out = append(out, TermWeight{Term: m.vocab.Term(i), Weight: float64(c)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// A TermWeight pairs a vocabulary term with a weight, used for
// frequency counts, topic-word weights, and classifier coefficients.
type TermWeight struct {
	Term   string
	Weight float64
}
