package textdata

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Subset labels attached to every statistic, so a reader always knows
// which documents a number was computed over.
const (
	SubsetFull         = "full corpus"
	SubsetScored       = "scored documents"
	SubsetIntersection = "intersection of scored documents"
)

// Intersection returns the ids scored by both sets, in a's insertion
// order.
func Intersection(a, b *ScoreSet) []string {
	var ids []string
	for _, id := range a.IDs() {
		if _, ok := b.Score(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// A CorrelationResult reports the Pearson correlation of two score
// series over their covered-id intersection.
type CorrelationResult struct {
	R      float64
	N      int
	Subset string
}

// Correlate computes the Pearson correlation between two score series,
// restricted to the documents both methods scored.
func Correlate(a, b *ScoreSet) (CorrelationResult, error) {
	ids := Intersection(a, b)
	if len(ids) < 2 {
		return CorrelationResult{}, fmt.Errorf("correlation needs at least 2 jointly scored documents, have %d", len(ids))
	}
	x := a.Values(ids)
	y := b.Values(ids)
	r := stat.Correlation(x, y, nil)
	return CorrelationResult{R: r, N: len(ids), Subset: SubsetIntersection}, nil
}

// GroupStats summarizes a score series within one label group.
type GroupStats struct {
	N      int
	Mean   float64
	Median float64
}

// A GroupSummary holds per-label score summaries for one method.
type GroupSummary struct {
	Method  string
	Subset  string
	ByLabel map[int]GroupStats
}

// SummarizeByLabel splits the scored documents by their binary outcome
// label and reports mean and median for each group. Documents without a
// score are excluded (they were never zero).
func SummarizeByLabel(s *ScoreSet, labels map[string]int) GroupSummary {
	grouped := make(map[int][]float64)
	for _, id := range s.IDs() {
		label, ok := labels[id]
		if !ok {
			continue
		}
		v, _ := s.Score(id)
		grouped[label] = append(grouped[label], v)
	}

	summary := GroupSummary{Method: s.Method, Subset: SubsetScored, ByLabel: make(map[int]GroupStats)}
	for label, values := range grouped {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		summary.ByLabel[label] = GroupStats{
			N:      len(values),
			Mean:   stat.Mean(values, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		}
	}
	return summary
}

// A TTestResult reports a Welch two-sample difference-in-means test
// between the label-0 and label-1 score groups.
type TTestResult struct {
	MeanDiff float64 // mean(label 1) - mean(label 0)
	T        float64
	DF       float64
	P        float64
	N0, N1   int
	Subset   string
}

// DiffInMeans runs Welch's t-test on the scores split by binary label.
func DiffInMeans(s *ScoreSet, labels map[string]int) (TTestResult, error) {
	var g0, g1 []float64
	for _, id := range s.IDs() {
		label, ok := labels[id]
		if !ok {
			continue
		}
		v, _ := s.Score(id)
		if label == 0 {
			g0 = append(g0, v)
		} else {
			g1 = append(g1, v)
		}
	}
	if len(g0) < 2 || len(g1) < 2 {
		return TTestResult{}, fmt.Errorf("difference-in-means needs at least 2 scored documents per group, have %d and %d", len(g0), len(g1))
	}

	m0, v0 := stat.MeanVariance(g0, nil)
	m1, v1 := stat.MeanVariance(g1, nil)
	n0, n1 := float64(len(g0)), float64(len(g1))

	se2 := v0/n0 + v1/n1
	diff := m1 - m0
	res := TTestResult{MeanDiff: diff, N0: len(g0), N1: len(g1), Subset: SubsetScored}
	if se2 == 0 {
		// Both groups are constant; the test degenerates.
		res.T = math.Inf(1) * sign(diff)
		res.P = 0
		if diff == 0 {
			res.T = 0
			res.P = 1
		}
		return res, nil
	}

	res.T = diff / math.Sqrt(se2)
	res.DF = se2 * se2 / ((v0*v0)/(n0*n0*(n0-1)) + (v1*v1)/(n1*n1*(n1-1)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.P = 2 * dist.CDF(-math.Abs(res.T))
	return res, nil
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// A CoverageResult reports how many documents a method scored out of
// the corpus, keeping absent scores distinct from zero scores.
type CoverageResult struct {
	Scored   int
	Total    int
	Fraction float64
	Subset   string
}

// Coverage reports the scored share of a corpus of the given size.
func Coverage(s *ScoreSet, total int) CoverageResult {
	res := CoverageResult{Scored: s.Len(), Total: total, Subset: SubsetFull}
	if total > 0 {
		res.Fraction = float64(s.Len()) / float64(total)
	}
	return res
}

// KeywordMeans summarizes scores grouped by each document's keyword
// column. Documents without a keyword fall under the empty key.
func KeywordMeans(s *ScoreSet, docs []Document) map[string]GroupStats {
	grouped := make(map[string][]float64)
	for _, d := range docs {
		v, ok := s.Score(d.ID)
		if !ok {
			continue
		}
		grouped[d.Keyword] = append(grouped[d.Keyword], v)
	}

	out := make(map[string]GroupStats, len(grouped))
	for keyword, values := range grouped {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		out[keyword] = GroupStats{
			N:      len(values),
			Mean:   stat.Mean(values, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		}
	}
	return out
}
