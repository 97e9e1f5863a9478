package textdata

import (
	"strings"
	"testing"
)

func TestReadCorpus(t *testing.T) {
	csv := "id,keyword,location,text,target\n" +
		"1,ablaze,London,Forest fire near town,1\n" +
		"2,,,Just enjoying the sunshine,0\n" +
		"3,flood,\"Calgary, AB\",Streets under water,1\n"

	corpus, err := ReadCorpus(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("All well-formed rows load", func(t *testing.T) {
		if corpus.Len() != 3 {
			t.Fatalf("expected 3 documents, got %d", corpus.Len())
		}
		if len(corpus.Skipped) != 0 {
			t.Errorf("expected nothing skipped, got %v", corpus.Skipped)
		}
	})

	t.Run("Columns map onto document fields", func(t *testing.T) {
		doc, ok := corpus.Doc("3")
		if !ok {
			t.Fatal("document 3 missing")
		}
		if doc.Keyword != "flood" || doc.Location != "Calgary, AB" || doc.Target != 1 {
			t.Errorf("unexpected document fields: %+v", doc)
		}
		if doc.Text != "Streets under water" {
			t.Errorf("unexpected text: %q", doc.Text)
		}
	})

	t.Run("Labels come back keyed by id", func(t *testing.T) {
		labels := corpus.Labels()
		if labels["1"] != 1 || labels["2"] != 0 || labels["3"] != 1 {
			t.Errorf("unexpected labels: %v", labels)
		}
	})
}

func TestReadCorpusSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		csv        string
		wantDocs   int
		reasonPart string
		desc       string
	}{
		{
			"id,text,target\n1,hello,1\n1,again,0\n",
			1, "duplicate id",
			"Duplicate ids keep the first row",
		},
		{
			"id,text,target\n,orphan row,1\n2,kept,0\n",
			1, "missing id",
			"Rows without an id are skipped",
		},
		{
			"id,text,target\n1,\xff\xfe garbled,1\n2,kept,0\n",
			1, "not valid UTF-8",
			"Rows with malformed text are skipped",
		},
		{
			"id,text,target\n1,hello,yes\n2,kept,0\n",
			1, "target is not 0 or 1",
			"Rows with a non-binary target are skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			corpus, err := ReadCorpus(strings.NewReader(tt.csv))
			if err != nil {
				t.Fatal(err)
			}
			if corpus.Len() != tt.wantDocs {
				t.Errorf("expected %d documents, got %d", tt.wantDocs, corpus.Len())
			}
			if len(corpus.Skipped) != 1 {
				t.Fatalf("expected 1 skipped row, got %v", corpus.Skipped)
			}
			if !strings.Contains(corpus.Skipped[0].Reason, tt.reasonPart) {
				t.Errorf("expected skip reason containing %q, got %q", tt.reasonPart, corpus.Skipped[0].Reason)
			}
		})
	}
}

func TestReadCorpusHeaderValidation(t *testing.T) {
	tests := []struct {
		csv  string
		desc string
	}{
		{"text,target\nhello,1\n", "Missing id column"},
		{"id,target\n1,1\n", "Missing text column"},
		{"", "Empty input"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := ReadCorpus(strings.NewReader(tt.csv)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestReadCorpusOptionalColumns(t *testing.T) {
	corpus, err := ReadCorpus(strings.NewReader("id,text\n1,no label here\n"))
	if err != nil {
		t.Fatal(err)
	}
	doc, ok := corpus.Doc("1")
	if !ok {
		t.Fatal("document 1 missing")
	}
	if doc.Target != 0 || doc.Keyword != "" || doc.Location != "" {
		t.Errorf("expected zero-valued optional fields, got %+v", doc)
	}
}

func TestTokenizeCorpus(t *testing.T) {
	corpus := &Corpus{Docs: []Document{
		{ID: "1", Text: "Fire spreading fast"},
		{ID: "2", Text: ""},
	}}

	docs, skipped := TokenizeCorpus(corpus, NewSocialTokenizer())

	if len(docs) != 2 {
		t.Fatalf("expected 2 tokenized documents, got %d", len(docs))
	}
	if len(skipped) != 0 {
		t.Errorf("expected nothing skipped, got %v", skipped)
	}
	if len(docs[0].Tokens) != 3 {
		t.Errorf("expected 3 tokens for document 1, got %v", docs[0].Tokens)
	}
	if len(docs[1].Tokens) != 0 {
		t.Errorf("expected an empty token sequence for empty text, got %v", docs[1].Tokens)
	}
}
