package textdata

import (
	"math"
	"strings"
	"testing"
)

func testLexicon() *Lexicon {
	return NewLexicon("bing", map[string]Polarity{
		"great":     PolarityPositive,
		"rescue":    PolarityPositive,
		"explosion": PolarityNegative,
		"kills":     PolarityNegative,
		"died":      PolarityNegative,
	})
}

func TestDictionaryScorer(t *testing.T) {
	scorer := NewDictionaryScorer(testLexicon())

	tests := []struct {
		tokens   []string
		expected float64
		desc     string
	}{
		{[]string{"great", "rescue", "effort"}, 2, "Positive matches add"},
		{[]string{"explosion", "kills", "dozens"}, -2, "Negative matches subtract"},
		{[]string{"great", "explosion"}, 0, "Balanced matches score zero"},
		{[]string{"GREAT", "news"}, 1, "Matching is case-insensitive"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			set, unscored := scorer.Score([]TokenizedDocument{{ID: "1", Tokens: tt.tokens}})
			score, ok := set.Score("1")
			if !ok {
				t.Fatal("expected the document to be scored")
			}
			if score != tt.expected {
				t.Errorf("expected score %v, got %v", tt.expected, score)
			}
			if len(unscored) != 0 {
				t.Errorf("expected no unscored warnings, got %v", unscored)
			}
		})
	}
}

func TestDictionaryScorerNoMatches(t *testing.T) {
	scorer := NewDictionaryScorer(testLexicon())

	set, unscored := scorer.Score([]TokenizedDocument{
		{ID: "1", Tokens: []string{"my", "phone", "battery"}},
	})

	if _, ok := set.Score("1"); ok {
		t.Error("expected no score for a document with zero matches")
	}
	if set.Len() != 0 {
		t.Errorf("expected an empty score set, got %d entries", set.Len())
	}
	if len(unscored) != 1 || unscored[0].DocID != "1" {
		t.Fatalf("expected one unscored warning for document 1, got %v", unscored)
	}
}

func TestDictionaryScorerEmotionCategories(t *testing.T) {
	lex := NewLexicon("nrc", map[string]Polarity{
		"fire":  Polarity("fear"),
		"great": PolarityPositive,
	})
	scorer := NewDictionaryScorer(lex)

	set, unscored := scorer.Score([]TokenizedDocument{
		{ID: "1", Tokens: []string{"fire", "fire"}},
		{ID: "2", Tokens: []string{"fire", "great"}},
	})

	if _, ok := set.Score("1"); ok {
		t.Error("expected fear-only tokens to leave the document unscored")
	}
	if len(unscored) != 1 || unscored[0].DocID != "1" {
		t.Errorf("expected one unscored warning for document 1, got %v", unscored)
	}
	if score, ok := set.Score("2"); !ok || score != 1 {
		t.Errorf("expected document 2 scored 1 from its polar token, got %v (%v)", score, ok)
	}
}

func TestScorePipelineOnToyCorpus(t *testing.T) {
	docs := []Document{
		{ID: "A", Text: "great rescue effort today", Target: 0},
		{ID: "B", Text: "explosion kills dozens", Target: 1},
		{ID: "C", Text: "my phone battery died yesterday", Target: 0},
	}
	lex := NewLexicon("bing", map[string]Polarity{
		"great":     PolarityPositive,
		"explosion": PolarityNegative,
		"kills":     PolarityNegative,
	})

	tokenizer := NewSocialTokenizer()
	tokenized := make([]TokenizedDocument, 0, len(docs))
	for _, d := range docs {
		toks, err := tokenizer.Tokenize(d.Text)
		if err != nil {
			t.Fatal(err)
		}
		tokenized = append(tokenized, TokenizedDocument{ID: d.ID, Tokens: toks})
	}

	set, unscored := NewDictionaryScorer(lex).Score(tokenized)

	if score, ok := set.Score("A"); !ok || score != 1 {
		t.Errorf("expected A scored +1, got %v (%v)", score, ok)
	}
	if score, ok := set.Score("B"); !ok || score != -2 {
		t.Errorf("expected B scored -2, got %v (%v)", score, ok)
	}
	if _, ok := set.Score("C"); ok {
		t.Error("expected C to remain unscored")
	}
	if len(unscored) != 1 || unscored[0].DocID != "C" {
		t.Errorf("expected one unscored warning for C, got %v", unscored)
	}

	cov := Coverage(set, len(docs))
	if cov.Scored != 2 || cov.Total != 3 {
		t.Errorf("expected coverage 2 of 3, got %d of %d", cov.Scored, cov.Total)
	}
	if math.Abs(cov.Fraction-2.0/3.0) > 1e-12 {
		t.Errorf("expected coverage fraction 2/3, got %v", cov.Fraction)
	}
}

func TestVaderScorer(t *testing.T) {
	docs := []Document{
		{ID: "1", Text: "What a wonderful, amazing rescue!"},
		{ID: "2", Text: "Horrible tragedy, so many dead."},
		{ID: "3", Text: ""},
	}

	set := NewVaderScorer().Score(docs)

	if set.Len() != len(docs) {
		t.Fatalf("expected every document scored, got %d of %d", set.Len(), len(docs))
	}
	pos, _ := set.Score("1")
	neg, _ := set.Score("2")
	if pos <= 0 {
		t.Errorf("expected a positive compound score for document 1, got %v", pos)
	}
	if neg >= 0 {
		t.Errorf("expected a negative compound score for document 2, got %v", neg)
	}
	for _, id := range set.IDs() {
		score, _ := set.Score(id)
		if score < -1 || score > 1 {
			t.Errorf("compound score for %s out of [-1, 1]: %v", id, score)
		}
	}
}

func TestReadLexicon(t *testing.T) {
	tests := []struct {
		csv     string
		wantErr bool
		desc    string
	}{
		{"word,sentiment\nabandon,negative\nabundance,positive\n", false, "Standard word/sentiment header"},
		{"token,category\nfire,fear\n", false, "Alternate header names"},
		{"a,b\nx,y\n", true, "Unrecognized header is rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			lex, err := ReadLexicon("test", strings.NewReader(tt.csv))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if lex.Len() == 0 {
				t.Error("expected at least one entry")
			}
		})
	}
}

func TestReadLexiconMultiCategory(t *testing.T) {
	// NRC-style lexicons list the same word under a polar category and
	// several emotion categories. The polar entry must survive
	// regardless of row order.
	csv := "word,sentiment\n" +
		"abandon,negative\n" +
		"abandon,fear\n" +
		"abandon,sadness\n" +
		"fire,fear\n" +
		"fire,negative\n" +
		"joy,anticipation\n"

	lex, err := ReadLexicon("nrc", strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Later emotion rows never mask an earlier polar entry", func(t *testing.T) {
		if pol, ok := lex.Polarity("abandon"); !ok || pol != PolarityNegative {
			t.Errorf("expected abandon negative, got %v (%v)", pol, ok)
		}
	})

	t.Run("A polar row replaces an earlier emotion entry", func(t *testing.T) {
		if pol, ok := lex.Polarity("fire"); !ok || pol != PolarityNegative {
			t.Errorf("expected fire negative, got %v (%v)", pol, ok)
		}
	})

	t.Run("Emotion-only words stay non-polar", func(t *testing.T) {
		if pol, ok := lex.Polarity("joy"); !ok || pol != Polarity("anticipation") {
			t.Errorf("expected joy anticipation, got %v (%v)", pol, ok)
		}
	})

	t.Run("Multi-category words still score", func(t *testing.T) {
		set, unscored := NewDictionaryScorer(lex).Score([]TokenizedDocument{
			{ID: "1", Tokens: []string{"abandon"}},
		})
		if score, ok := set.Score("1"); !ok || score != -1 {
			t.Errorf("expected score -1, got %v (%v)", score, ok)
		}
		if len(unscored) != 0 {
			t.Errorf("expected no unscored warnings, got %v", unscored)
		}
	})
}

func TestReadLexiconEntries(t *testing.T) {
	lex, err := ReadLexicon("bing", strings.NewReader("word,sentiment\nAbandon,Negative\ncalm,positive\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if pol, ok := lex.Polarity("abandon"); !ok || pol != PolarityNegative {
		t.Errorf("expected abandon negative, got %v (%v)", pol, ok)
	}
	if pol, ok := lex.Polarity("CALM"); !ok || pol != PolarityPositive {
		t.Errorf("expected calm positive via case-insensitive lookup, got %v (%v)", pol, ok)
	}
	if _, ok := lex.Polarity("serene"); ok {
		t.Error("expected serene to be absent")
	}
}
