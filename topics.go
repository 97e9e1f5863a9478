package textdata

import (
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// TopicConfig configures the topic-model estimator. K has no single
// correct value and must be set explicitly; it is never inferred.
type TopicConfig struct {
	K                    int    // number of latent topics, required
	Seed                 uint64 // random seed, stored with any saved artifact
	Iterations           int
	TransformationPasses int
	// Processes is the estimator's worker count. More than one worker
	// interleaves updates nondeterministically, so a seeded fit is only
	// reproducible with a single process.
	Processes int
}

// DefaultTopicConfig returns a baseline configuration for k topics. It
// runs the estimator single-process so a fixed seed reproduces the fit;
// raising Processes trades that away for speed.
func DefaultTopicConfig(k int) TopicConfig {
	return TopicConfig{
		K:                    k,
		Seed:                 1,
		Iterations:           50,
		TransformationPasses: 25,
		Processes:            1,
	}
}

// A TopicModel wraps a fitted Latent Dirichlet Allocation estimator and
// exposes read-only queries over its output: per-document topic
// proportions, per-topic term weights, topic correlations, and the
// documents most associated with each topic. The fitting algorithm
// itself is the estimator's concern.
type TopicModel struct {
	k           int
	seed        uint64
	docIDs      []string
	terms       []string
	proportions [][]float64 // docs x K, each row on the K-simplex
	components  [][]float64 // K x terms
	docIndex    map[string]int

	lda *nlp.LatentDirichletAllocation // nil for artifacts loaded from disk
}

// FitTopicModel fits LDA to the document-term matrix. The estimator is
// seeded from the config, so a fixed corpus, K and seed reproduce the
// same model as long as Processes stays at 1; concurrent workers make
// the fit nondeterministic even when seeded.
func FitTopicModel(dtm *DTM, cfg TopicConfig) (*TopicModel, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("topic count K must be explicitly configured (got %d)", cfg.K)
	}
	if dtm.Len() == 0 {
		return nil, fmt.Errorf("cannot fit a topic model to an empty corpus")
	}

	lda := nlp.NewLatentDirichletAllocation(cfg.K)
	lda.Rnd = rand.New(rand.NewSource(cfg.Seed))
	if cfg.Iterations > 0 {
		lda.Iterations = cfg.Iterations
	}
	if cfg.TransformationPasses > 0 {
		lda.TransformationPasses = cfg.TransformationPasses
	}
	if cfg.Processes > 0 {
		lda.Processes = cfg.Processes
	}

	docsOverTopics, err := lda.FitTransform(dtm.TermDocMatrix())
	if err != nil {
		return nil, &EstimationError{Op: "lda fit", Err: err}
	}

	m := &TopicModel{
		k:      cfg.K,
		seed:   cfg.Seed,
		docIDs: append([]string(nil), dtm.DocIDs...),
		terms:  dtm.Vocab().Terms(),
		lda:    lda,
	}

	// docsOverTopics is topics x docs; re-lay as per-document simplex rows.
	_, docs := docsOverTopics.Dims()
	m.proportions = make([][]float64, docs)
	for j := 0; j < docs; j++ {
		row := make([]float64, cfg.K)
		total := 0.0
		for t := 0; t < cfg.K; t++ {
			row[t] = docsOverTopics.At(t, j)
			total += row[t]
		}
		if total > 0 {
			for t := range row {
				row[t] /= total
			}
		}
		m.proportions[j] = row
	}

	components := lda.Components()
	_, nTerms := components.Dims()
	m.components = make([][]float64, cfg.K)
	for t := 0; t < cfg.K; t++ {
		row := make([]float64, nTerms)
		for w := 0; w < nTerms; w++ {
			row[w] = components.At(t, w)
		}
		m.components[t] = row
	}

	m.indexDocs()
	return m, nil
}

func (m *TopicModel) indexDocs() {
	m.docIndex = make(map[string]int, len(m.docIDs))
	for i, id := range m.docIDs {
		m.docIndex[id] = i
	}
}

// K returns the configured topic count.
func (m *TopicModel) K() int { return m.k }

// Seed returns the seed the estimator was initialized with.
func (m *TopicModel) Seed() uint64 { return m.seed }

// DocIDs returns the ids of the documents the model was fit on, in
// matrix order.
func (m *TopicModel) DocIDs() []string {
	return append([]string(nil), m.docIDs...)
}

// Proportions returns the topic-proportion vector for a document. Only
// documents that survived vocabulary pruning have one.
func (m *TopicModel) Proportions(docID string) ([]float64, bool) {
	i, ok := m.docIndex[docID]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), m.proportions[i]...), true
}

// TopicTerms returns the n heaviest terms for a topic.
func (m *TopicModel) TopicTerms(topic, n int) ([]TermWeight, error) {
	if topic < 0 || topic >= m.k {
		return nil, fmt.Errorf("topic %d out of range [0,%d)", topic, m.k)
	}
	weights := make([]TermWeight, len(m.terms))
	for w, term := range m.terms {
		weights[w] = TermWeight{Term: term, Weight: m.components[topic][w]}
	}
	sort.SliceStable(weights, func(i, j int) bool { return weights[i].Weight > weights[j].Weight })
	if n < len(weights) {
		weights = weights[:n]
	}
	return weights, nil
}

// A DocumentWeight pairs a document id with a topic proportion.
type DocumentWeight struct {
	DocID  string
	Weight float64
}

// TopDocuments returns the n documents with the highest proportion on
// the given topic, for human labeling. It is a read-only query.
func (m *TopicModel) TopDocuments(topic, n int) ([]DocumentWeight, error) {
	if topic < 0 || topic >= m.k {
		return nil, fmt.Errorf("topic %d out of range [0,%d)", topic, m.k)
	}
	docs := make([]DocumentWeight, len(m.docIDs))
	for i, id := range m.docIDs {
		docs[i] = DocumentWeight{DocID: id, Weight: m.proportions[i][topic]}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Weight > docs[j].Weight })
	if n < len(docs) {
		docs = docs[:n]
	}
	return docs, nil
}

// A TopicEdge connects two topics whose proportion series correlate
// beyond the configured magnitude threshold.
type TopicEdge struct {
	A, B int
	R    float64
}

// TopicCorrelations computes the pairwise Pearson correlation of topic
// proportions across documents and returns the full K x K matrix along
// with the edges whose |r| meets the threshold.
func (m *TopicModel) TopicCorrelations(threshold float64) ([][]float64, []TopicEdge) {
	cols := make([][]float64, m.k)
	for t := 0; t < m.k; t++ {
		col := make([]float64, len(m.proportions))
		for i := range m.proportions {
			col[i] = m.proportions[i][t]
		}
		cols[t] = col
	}

	corr := make([][]float64, m.k)
	var edges []TopicEdge
	for a := 0; a < m.k; a++ {
		corr[a] = make([]float64, m.k)
		corr[a][a] = 1
	}
	for a := 0; a < m.k; a++ {
		for b := a + 1; b < m.k; b++ {
			r := stat.Correlation(cols[a], cols[b], nil)
			corr[a][b] = r
			corr[b][a] = r
			if r >= threshold || -r >= threshold {
				edges = append(edges, TopicEdge{A: a, B: b, R: r})
			}
		}
	}
	return corr, edges
}

// Infer returns topic proportions for held-out documents. It requires a
// model fit in this process; artifacts loaded from disk answer queries
// only.
func (m *TopicModel) Infer(dtm *DTM) (map[string][]float64, error) {
	if m.lda == nil {
		return nil, fmt.Errorf("topic model was loaded from disk and supports queries only")
	}
	docsOverTopics, err := m.lda.Transform(dtm.TermDocMatrix())
	if err != nil {
		return nil, &EstimationError{Op: "lda transform", Err: err}
	}
	out := make(map[string][]float64, dtm.Len())
	for j, id := range dtm.DocIDs {
		row := make([]float64, m.k)
		total := 0.0
		for t := 0; t < m.k; t++ {
			row[t] = docsOverTopics.At(t, j)
			total += row[t]
		}
		if total > 0 {
			for t := range row {
				row[t] /= total
			}
		}
		out[id] = row
	}
	return out, nil
}

// topicArtifact is the gob wire form of a fitted model.
type topicArtifact struct {
	K           int
	Seed        uint64
	DocIDs      []string
	Terms       []string
	Proportions [][]float64
	Components  [][]float64
}

// Save persists the fitted model to the given file path. The stored
// artifact records the seed it was fit with.
func (m *TopicModel) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving topic model: %w", err)
	}
	defer f.Close()

	art := topicArtifact{
		K:           m.k,
		Seed:        m.seed,
		DocIDs:      m.docIDs,
		Terms:       m.terms,
		Proportions: m.proportions,
		Components:  m.components,
	}
	if err := gob.NewEncoder(f).Encode(art); err != nil {
		return fmt.Errorf("saving topic model: %w", err)
	}
	return nil
}

// LoadTopicModel loads a previously fit model for use in place of
// re-fitting. The loaded model supports every query operation but
// cannot be refit or used to transform new documents.
func LoadTopicModel(path string) (*TopicModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading topic model: %w", err)
	}
	defer f.Close()

	var art topicArtifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("loading topic model: %w", err)
	}

	m := &TopicModel{
		k:           art.K,
		seed:        art.Seed,
		docIDs:      art.DocIDs,
		terms:       art.Terms,
		proportions: art.Proportions,
		components:  art.Components,
	}
	m.indexDocs()
	return m, nil
}

// SentenceBags splits multi-sentence documents into one bag per
// sentence ahead of topic modeling, so long documents do not smear
// several topics into a single row. Single-sentence documents pass
// through unchanged. Bag ids extend the parent id with the sentence
// ordinal.
func SentenceBags(docs []Document) ([]Document, error) {
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading sentence segmenter: %w", err)
	}

	var bags []Document
	for _, d := range docs {
		sents := segmenter.Tokenize(d.Text)
		if len(sents) <= 1 {
			bags = append(bags, d)
			continue
		}
		for i, s := range sents {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}
			bag := d
			bag.ID = fmt.Sprintf("%s/s%d", d.ID, i)
			bag.Text = text
			bags = append(bags, bag)
		}
	}
	return bags, nil
}
