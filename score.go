package textdata

import "github.com/jonreiter/govader"

// A DictionaryScorer joins per-document tokens against a sentiment
// lexicon and aggregates matches into one scalar score per document:
// matched positive count minus matched negative count.
type DictionaryScorer struct {
	lexicon *Lexicon
}

// NewDictionaryScorer creates a scorer over the given lexicon.
func NewDictionaryScorer(lexicon *Lexicon) *DictionaryScorer {
	return &DictionaryScorer{lexicon: lexicon}
}

// Score computes the dictionary score for each tokenized document.
// Documents with zero lexicon matches yield no score at all rather than
// a zero; they are reported as warnings so coverage statistics can
// distinguish "matched nothing" from "net neutral".
func (s *DictionaryScorer) Score(docs []TokenizedDocument) (*ScoreSet, []UnscoredDocumentWarning) {
	set := NewScoreSet(s.lexicon.Name)
	var unscored []UnscoredDocumentWarning

	for _, d := range docs {
		matched := false
		score := 0
		for _, tok := range d.Tokens {
			pol, ok := s.lexicon.Polarity(tok)
			if !ok {
				continue
			}
			switch pol {
			case PolarityPositive:
				matched = true
				score++
			case PolarityNegative:
				matched = true
				score--
			}
			// Finer emotion categories are lexicon entries too, but
			// they carry no polarity and do not count as matches.
		}
		if !matched {
			unscored = append(unscored, UnscoredDocumentWarning{DocID: d.ID, Method: s.lexicon.Name})
			continue
		}
		set.Add(d.ID, float64(score))
	}

	return set, unscored
}

// A VaderScorer scores raw document text with the VADER rule-based
// sentiment model. It is an independent method whose compound score the
// evaluator can correlate against dictionary scores.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER scorer with the stock lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1] for every document.
// VADER always produces a value, so the returned set covers the whole
// input.
func (s *VaderScorer) Score(docs []Document) *ScoreSet {
	set := NewScoreSet("vader")
	for _, d := range docs {
		set.Add(d.ID, s.analyzer.PolarityScores(d.Text).Compound)
	}
	return set
}
