package textdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A Corpus is the set of documents loaded for one session, plus the
// rows that were excluded during loading.
type Corpus struct {
	Docs    []Document
	Skipped []SkippedDocument
}

// Len returns the number of loaded documents.
func (c *Corpus) Len() int { return len(c.Docs) }

// Labels returns the per-document binary outcome labels keyed by id.
func (c *Corpus) Labels() map[string]int {
	labels := make(map[string]int, len(c.Docs))
	for _, d := range c.Docs {
		labels[d.ID] = d.Target
	}
	return labels
}

// Doc returns the document with the given id, if it exists.
func (c *Corpus) Doc(id string) (Document, bool) {
	for _, d := range c.Docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// LoadCorpus reads a corpus from a CSV file with a header row. The
// columns "id" and "text" are required; "target", "keyword" and
// "location" are optional. Rows with malformed text are recorded on the
// skip list instead of aborting the load.
func LoadCorpus(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}

// ReadCorpus reads CSV rows from r. See LoadCorpus for the expected
// column layout.
func ReadCorpus(r io.Reader) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols["id"]
	if !ok {
		return nil, fmt.Errorf("corpus header is missing an %q column", "id")
	}
	textCol, ok := cols["text"]
	if !ok {
		return nil, fmt.Errorf("corpus header is missing a %q column", "text")
	}

	corpus := &Corpus{}
	seen := make(map[string]bool)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading corpus row: %w", err)
		}

		id := strings.TrimSpace(field(rec, idCol))
		if id == "" {
			corpus.Skipped = append(corpus.Skipped, SkippedDocument{Reason: "missing id"})
			continue
		}
		if seen[id] {
			corpus.Skipped = append(corpus.Skipped, SkippedDocument{ID: id, Reason: "duplicate id"})
			continue
		}

		text := field(rec, textCol)
		if !utf8.ValidString(text) {
			encErr := &EncodingError{DocID: id, Reason: "text is not valid UTF-8"}
			corpus.Skipped = append(corpus.Skipped, SkippedDocument{ID: id, Reason: encErr.Error()})
			continue
		}

		doc := Document{ID: id, Text: text}
		if i, ok := cols["keyword"]; ok {
			doc.Keyword = field(rec, i)
		}
		if i, ok := cols["location"]; ok {
			doc.Location = field(rec, i)
		}
		if i, ok := cols["target"]; ok {
			target, convErr := strconv.Atoi(strings.TrimSpace(field(rec, i)))
			if convErr != nil || (target != 0 && target != 1) {
				corpus.Skipped = append(corpus.Skipped, SkippedDocument{ID: id, Reason: "target is not 0 or 1"})
				continue
			}
			doc.Target = target
		}

		seen[id] = true
		corpus.Docs = append(corpus.Docs, doc)
	}

	return corpus, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// TokenizeCorpus runs a tokenizer over every document. Documents whose
// text fails tokenization are excluded and reported alongside the
// survivors.
func TokenizeCorpus(c *Corpus, t Tokenizer) ([]TokenizedDocument, []SkippedDocument) {
	docs := make([]TokenizedDocument, 0, len(c.Docs))
	var skipped []SkippedDocument
	for _, d := range c.Docs {
		tokens, err := t.Tokenize(d.Text)
		if err != nil {
			skipped = append(skipped, SkippedDocument{ID: d.ID, Reason: err.Error()})
			continue
		}
		docs = append(docs, TokenizedDocument{ID: d.ID, Tokens: tokens})
	}
	return docs, skipped
}
