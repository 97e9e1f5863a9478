package textdata

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/bsm/mlmetrics"
	"gonum.org/v1/gonum/mat"
)

// ClassifierConfig configures the regularized classifier path. Label
// polarity is explicit: PositiveLabel names the target value mapped to
// class 1, so an accidental inversion shows up in configuration review
// instead of silently flipping every coefficient.
type ClassifierConfig struct {
	Lambdas       []float64 // ordered path of regularization strengths
	PositiveLabel int       // target value treated as class 1
	Threshold     float64   // probability cutoff for the predicted label
	Iterations    int
	LearnRate     float64
}

// DefaultClassifierConfig returns a standard configuration with a
// log-spaced regularization path.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Lambdas:       []float64{1e-3, 1e-2, 1e-1, 1, 10, 100},
		PositiveLabel: 1,
		Threshold:     0.5,
		Iterations:    300,
		LearnRate:     0.5,
	}
}

// A LinearEstimator fits per-term coefficients and an intercept for one
// regularization strength. The default is gradient-based logistic
// regression; the interface keeps the estimator pluggable so the
// pipeline is testable independent of which concrete estimator backs
// it.
type LinearEstimator interface {
	Fit(vectors []DocTermVector, y []float64, dims int, lambda float64) (weights *mat.VecDense, intercept float64, err error)
}

// gradientEstimator is full-batch logistic regression with an L2
// penalty on the term coefficients. The intercept is never penalized.
type gradientEstimator struct {
	iterations int
	learnRate  float64
}

func (e *gradientEstimator) Fit(vectors []DocTermVector, y []float64, dims int, lambda float64) (*mat.VecDense, float64, error) {
	if len(vectors) == 0 {
		return nil, 0, fmt.Errorf("no training documents")
	}
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, 0, fmt.Errorf("invalid regularization strength %g", lambda)
	}

	n := float64(len(vectors))
	weights := mat.NewVecDense(dims, nil)
	grad := mat.NewVecDense(dims, nil)
	intercept := 0.0

	// Proximal update: the data gradient steps first, then the penalty
	// shrinks the coefficients by 1/(1+lr*lambda), which stays stable
	// at any strength on the path.
	shrink := 1.0 / (1.0 + e.learnRate*lambda)

	for iter := 0; iter < e.iterations; iter++ {
		grad.Zero()
		gradB := 0.0
		for i, vec := range vectors {
			z := intercept
			for j, count := range vec {
				z += weights.AtVec(j) * float64(count)
			}
			r := sigmoid(z) - y[i]
			gradB += r
			for j, count := range vec {
				grad.SetVec(j, grad.AtVec(j)+r*float64(count))
			}
		}

		weights.AddScaledVec(weights, -e.learnRate/n, grad)
		weights.ScaleVec(shrink, weights)
		intercept -= e.learnRate * gradB / n
	}

	return weights, intercept, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// A PathStep holds the fitted model at one regularization strength.
type PathStep struct {
	Lambda     float64
	Intercept  float64
	Degenerate bool

	weights *mat.VecDense
}

// A PathClassifier is a logistic model fit at every strength on the
// regularization path, over a frozen vocabulary.
type PathClassifier struct {
	cfg      ClassifierConfig
	vocab    *Vocabulary
	Steps    []PathStep
	Warnings []DegenerateClassifierWarning
}

// collapse tolerance for the degenerate-classifier check
const degenerateTol = 1e-6

// TrainClassifierPath fits the classifier at each configured strength.
// Every document in the matrix must have a label. A nil estimator uses
// the built-in gradient estimator.
func TrainClassifierPath(dtm *DTM, labels map[string]int, cfg ClassifierConfig, est LinearEstimator) (*PathClassifier, error) {
	if len(cfg.Lambdas) == 0 {
		return nil, fmt.Errorf("regularization path is empty")
	}
	if cfg.Threshold <= 0 || cfg.Threshold >= 1 {
		return nil, fmt.Errorf("threshold must be in (0,1), got %g", cfg.Threshold)
	}
	if est == nil {
		iterations, learnRate := cfg.Iterations, cfg.LearnRate
		if iterations <= 0 {
			iterations = 300
		}
		if learnRate <= 0 {
			learnRate = 0.5
		}
		est = &gradientEstimator{iterations: iterations, learnRate: learnRate}
	}

	y := make([]float64, dtm.Len())
	for i, id := range dtm.DocIDs {
		label, ok := labels[id]
		if !ok {
			return nil, fmt.Errorf("document %s has no training label", id)
		}
		if label == cfg.PositiveLabel {
			y[i] = 1
		}
	}

	c := &PathClassifier{cfg: cfg, vocab: dtm.Vocab()}
	for _, lambda := range cfg.Lambdas {
		weights, intercept, err := est.Fit(dtm.Vectors, y, dtm.Vocab().Size(), lambda)
		if err != nil {
			return nil, &EstimationError{Op: fmt.Sprintf("logistic fit at lambda=%g", lambda), Err: err}
		}
		step := PathStep{Lambda: lambda, Intercept: intercept, weights: weights}
		if maxAbsVec(weights) < degenerateTol {
			step.Degenerate = true
			c.Warnings = append(c.Warnings, DegenerateClassifierWarning{Lambda: lambda})
		}
		c.Steps = append(c.Steps, step)
	}
	return c, nil
}

func maxAbsVec(v *mat.VecDense) float64 {
	maxAbs := 0.0
	for i := 0; i < v.Len(); i++ {
		if a := math.Abs(v.AtVec(i)); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// Probability returns the predicted probability of the positive class
// for a count vector, at the given path step. It is a monotone logistic
// transform of the linear combination of counts and coefficients.
func (c *PathClassifier) Probability(step int, vec DocTermVector) (float64, error) {
	if step < 0 || step >= len(c.Steps) {
		return 0, fmt.Errorf("path step %d out of range [0,%d)", step, len(c.Steps))
	}
	s := c.Steps[step]
	z := s.Intercept
	for j, count := range vec {
		z += s.weights.AtVec(j) * float64(count)
	}
	return sigmoid(z), nil
}

// PredictLabel thresholds the predicted probability into a 0/1 label.
func (c *PathClassifier) PredictLabel(step int, vec DocTermVector) (int, error) {
	p, err := c.Probability(step, vec)
	if err != nil {
		return 0, err
	}
	if p > c.cfg.Threshold {
		return 1, nil
	}
	return 0, nil
}

// A Coefficient is one entry of a fitted model. The intercept appears
// as a distinguished non-word entry.
type Coefficient struct {
	Term      string
	Intercept bool
	Weight    float64
}

// TopCoefficients returns the n largest-magnitude coefficients at a
// path step, with the intercept always included as its own entry.
func (c *PathClassifier) TopCoefficients(step, n int) ([]Coefficient, error) {
	if step < 0 || step >= len(c.Steps) {
		return nil, fmt.Errorf("path step %d out of range [0,%d)", step, len(c.Steps))
	}
	s := c.Steps[step]
	coefs := make([]Coefficient, 0, s.weights.Len())
	for j := 0; j < s.weights.Len(); j++ {
		coefs = append(coefs, Coefficient{Term: c.vocab.Term(j), Weight: s.weights.AtVec(j)})
	}
	sort.SliceStable(coefs, func(i, j int) bool {
		return math.Abs(coefs[i].Weight) > math.Abs(coefs[j].Weight)
	})
	if n < len(coefs) {
		coefs = coefs[:n]
	}
	return append(coefs, Coefficient{Intercept: true, Weight: s.Intercept}), nil
}

// A ClassifierEval summarizes held-out performance at one path step.
// FractionPositive is the share of documents predicted positive; a
// value of 0 or 1 at extreme regularization is the signature of a
// constant-label predictor.
type ClassifierEval struct {
	Lambda           float64
	Accuracy         float64
	FractionPositive float64
	N                int
	Subset           string
	Confusion        *mlmetrics.ConfusionMatrix
}

// Evaluate scores the classifier at one path step against labeled
// documents.
func (c *PathClassifier) Evaluate(step int, dtm *DTM, labels map[string]int) (ClassifierEval, error) {
	if step < 0 || step >= len(c.Steps) {
		return ClassifierEval{}, fmt.Errorf("path step %d out of range [0,%d)", step, len(c.Steps))
	}

	confusion := mlmetrics.NewConfusionMatrix()
	positives := 0
	n := 0
	for i, id := range dtm.DocIDs {
		label, ok := labels[id]
		if !ok {
			continue
		}
		truth := 0
		if label == c.cfg.PositiveLabel {
			truth = 1
		}
		pred, err := c.PredictLabel(step, dtm.Vectors[i])
		if err != nil {
			return ClassifierEval{}, err
		}
		confusion.Observe(truth, pred)
		if pred == 1 {
			positives++
		}
		n++
	}
	if n == 0 {
		return ClassifierEval{}, fmt.Errorf("no labeled documents to evaluate")
	}

	return ClassifierEval{
		Lambda:           c.Steps[step].Lambda,
		Accuracy:         confusion.Accuracy(),
		FractionPositive: float64(positives) / float64(n),
		N:                n,
		Subset:           "labeled documents in matrix",
		Confusion:        confusion,
	}, nil
}

// MajorityBaseline returns the accuracy of always predicting the most
// common class among the given labels.
func MajorityBaseline(labels map[string]int) float64 {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, v := range labels {
		counts[v]++
	}
	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}
	return float64(best) / float64(len(labels))
}

// SplitDocuments shuffles the documents with the given seed and splits
// off the final testFraction as a held-out set. The seed is explicit so
// the split is reproducible.
func SplitDocuments(docs []Document, testFraction float64, seed int64) (train, test []Document) {
	shuffled := make([]Document, len(docs))
	copy(shuffled, docs)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - int(float64(len(shuffled))*testFraction)
	if cut < 0 {
		cut = 0
	}
	if cut > len(shuffled) {
		cut = len(shuffled)
	}
	return shuffled[:cut], shuffled[cut:]
}
