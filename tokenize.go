package textdata

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bbalet/stopwords"
	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// A Tokenizer splits a document's raw text into an ordered sequence of
// token strings. Tokenizers are pure functions of the text, so the
// sequence can be regenerated any number of times.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

var (
	urlRE  = regexp.MustCompile(`^(?:https?://|www\.)\S+$`)
	atomRE = regexp.MustCompile(`^[@#][A-Za-z0-9_]+$`)
)

// sanitizer folds typographic quotes so contractions survive splitting.
var sanitizer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"&amp;", "&",
)

var emoticons = map[string]struct{}{
	":)": {}, ":(": {}, ":-)": {}, ":-(": {}, ":D": {}, ":P": {},
	";)": {}, ":/": {}, ":'(": {}, "<3": {}, "xD": {}, ":o": {},
	"=)": {}, "=(": {}, ":|": {}, ":*": {},
}

// SocialTokenizer splits on whitespace and punctuation boundaries while
// keeping mentions, hashtags, URLs and emoticons intact as single
// tokens. Case is preserved.
type SocialTokenizer struct {
	sanitizer *strings.Replacer
	emoticons map[string]struct{}
	isAtom    func(string) bool
}

// SocialOptFunc configures a SocialTokenizer.
type SocialOptFunc func(*SocialTokenizer)

// UsingSanitizer replaces the default character sanitizer.
func UsingSanitizer(r *strings.Replacer) SocialOptFunc {
	return func(t *SocialTokenizer) {
		t.sanitizer = r
	}
}

// UsingEmoticons replaces the default emoticon set.
func UsingEmoticons(m map[string]struct{}) SocialOptFunc {
	return func(t *SocialTokenizer) {
		t.emoticons = m
	}
}

// UsingAtomTester adds an extra test for tokens that must never be
// split, on top of the built-in mention/hashtag/URL handling.
func UsingAtomTester(fn func(string) bool) SocialOptFunc {
	return func(t *SocialTokenizer) {
		t.isAtom = fn
	}
}

// NewSocialTokenizer constructs a tokenizer in preserve-social-atoms
// mode.
func NewSocialTokenizer(opts ...SocialOptFunc) *SocialTokenizer {
	t := &SocialTokenizer{
		sanitizer: sanitizer,
		emoticons: emoticons,
		isAtom:    func(string) bool { return false },
	}
	for _, applyOpt := range opts {
		applyOpt(t)
	}
	return t
}

// Tokenize implements Tokenizer. Empty text yields an empty sequence;
// invalid UTF-8 yields an EncodingError.
func (t *SocialTokenizer) Tokenize(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, &EncodingError{Reason: "text is not valid UTF-8"}
	}

	tokens := []string{}
	for _, field := range strings.Fields(t.sanitizer.Replace(text)) {
		if t.special(field) {
			tokens = append(tokens, field)
			continue
		}
		// Trailing punctuation on an atom, e.g. "#flood," or "@nws:".
		trimmed := strings.TrimRightFunc(field, unicode.IsPunct)
		if trimmed != field && t.special(trimmed) {
			tokens = append(tokens, trimmed)
			continue
		}
		tokens = append(tokens, splitWordRuns(field)...)
	}
	return tokens, nil
}

func (t *SocialTokenizer) special(token string) bool {
	if _, found := t.emoticons[token]; found {
		return true
	}
	return urlRE.MatchString(token) || atomRE.MatchString(token) || t.isAtom(token)
}

// splitWordRuns emits the maximal runs of letters, digits and internal
// apostrophes from a whitespace-delimited field, discarding other
// punctuation, e.g. "well..." -> [well], "don't" -> [don't].
func splitWordRuns(field string) []string {
	var runs []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			runs = append(runs, strings.Trim(b.String(), "'"))
			b.Reset()
		}
	}
	for _, r := range field {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	out := runs[:0]
	for _, r := range runs {
		if r != "" {
			out = append(out, r)
		}
	}
	return out
}

// StemFunc reduces a token to its stem.
type StemFunc func(string) string

// StopwordFunc reports whether a token should be removed as a stopword.
type StopwordFunc func(string) bool

// NormalizeTokenizer lowercases, folds diacritics, strips punctuation
// and numerals, removes stopwords, and stems each surviving token. This
// is the mode the vocabulary, document-term matrix, topic model, and
// classifier are built on.
type NormalizeTokenizer struct {
	lang     string
	stop     StopwordFunc
	stem     StemFunc
	minRunes int
}

// NormalizeOptFunc configures a NormalizeTokenizer.
type NormalizeOptFunc func(*NormalizeTokenizer)

// UsingStopwords replaces the default stopword predicate.
func UsingStopwords(fn StopwordFunc) NormalizeOptFunc {
	return func(t *NormalizeTokenizer) {
		t.stop = fn
	}
}

// UsingStemmer replaces the default stemming rule.
func UsingStemmer(fn StemFunc) NormalizeOptFunc {
	return func(t *NormalizeTokenizer) {
		t.stem = fn
	}
}

// UsingLanguage sets the ISO 639-1 language code used by the default
// stopword predicate.
func UsingLanguage(code string) NormalizeOptFunc {
	return func(t *NormalizeTokenizer) {
		t.lang = code
	}
}

// UsingMinTokenLength drops surviving tokens shorter than n runes.
func UsingMinTokenLength(n int) NormalizeOptFunc {
	return func(t *NormalizeTokenizer) {
		t.minRunes = n
	}
}

// NewNormalizeTokenizer constructs a tokenizer in normalize mode. The
// defaults use the bbalet stopword lists for English and the Snowball
// English stemmer; both are explicit configuration, not ambient state.
func NewNormalizeTokenizer(opts ...NormalizeOptFunc) *NormalizeTokenizer {
	t := &NormalizeTokenizer{
		lang:     "en",
		stem:     func(w string) string { return english.Stem(w, false) },
		minRunes: 2,
	}
	for _, applyOpt := range opts {
		applyOpt(t)
	}
	if t.stop == nil {
		lang := t.lang
		t.stop = func(w string) bool {
			// The stopword lists aren't exported directly, so probe by
			// cleaning the single word and checking for survival.
			return strings.TrimSpace(stopwords.CleanString(w, lang, false)) == ""
		}
	}
	return t
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize implements Tokenizer. Empty text yields an empty sequence;
// invalid UTF-8 yields an EncodingError.
func (t *NormalizeTokenizer) Tokenize(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, &EncodingError{Reason: "text is not valid UTF-8"}
	}

	folded, _, err := transform.String(diacriticFolder, strings.ToLower(text))
	if err != nil {
		return nil, &EncodingError{Reason: err.Error()}
	}

	tokens := []string{}
	for _, run := range letterRuns(folded) {
		if utf8.RuneCountInString(run) < t.minRunes {
			continue
		}
		if t.stop(run) {
			continue
		}
		stemmed := t.stem(run)
		if stemmed == "" {
			continue
		}
		tokens = append(tokens, stemmed)
	}
	return tokens, nil
}

// letterRuns splits text into maximal runs of letters; digits and
// punctuation act as separators, which strips numerals entirely.
func letterRuns(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
