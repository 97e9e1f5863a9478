package textdata

import "fmt"

// EncodingError reports malformed input text for a single document. The
// corpus loader records the document on its skip list rather than
// aborting the whole load.
type EncodingError struct {
	DocID  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("document %s: encoding error: %s", e.DocID, e.Reason)
}

// EmptyVocabularyError is returned when pruning thresholds eliminate
// every term. It is fatal: continuing would silently produce an all-zero
// document-term matrix.
type EmptyVocabularyError struct {
	MinDocFreq  int
	MaxDocRatio float64
}

func (e *EmptyVocabularyError) Error() string {
	return fmt.Sprintf("vocabulary is empty after pruning (min doc freq %d, max doc ratio %.2f)",
		e.MinDocFreq, e.MaxDocRatio)
}

// EstimationError wraps a failure inside an external estimator
// (non-convergence, numerical singularity). It is not retried
// automatically; retrying with different hyperparameters is a caller
// decision.
type EstimationError struct {
	Op  string
	Err error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("%s: estimation failed: %v", e.Op, e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }

// An UnscoredDocumentWarning records a document with zero lexicon
// matches. The document is not dropped, so coverage statistics stay
// accurate.
type UnscoredDocumentWarning struct {
	DocID  string
	Method string
}

func (w UnscoredDocumentWarning) String() string {
	return fmt.Sprintf("document %s has no %s matches", w.DocID, w.Method)
}

// A DegenerateClassifierWarning records a regularization strength at
// which every term coefficient collapsed to zero. The evaluator should
// not mistake constant-prediction accuracy at that strength for model
// skill.
type DegenerateClassifierWarning struct {
	Lambda float64
}

func (w DegenerateClassifierWarning) String() string {
	return fmt.Sprintf("all coefficients collapsed to zero at lambda=%g", w.Lambda)
}
