// Command textdata runs one stage of the text-analysis walkthrough over
// a corpus of labeled messages: dictionary sentiment scoring, topic
// modeling, regularized classification, or a method comparison.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	textdata "github.com/milliff/text-as-data"
)

func main() {
	var (
		stage       = flag.String("stage", "", "stage to run: sentiment | topics | classify | evaluate")
		corpusPath  = flag.String("corpus", "", "corpus CSV (id,text,target[,keyword,location])")
		lexiconPath = flag.String("lexicon", "", "sentiment lexicon CSV (word,sentiment)")
		lexiconName = flag.String("lexicon-name", "dictionary", "name for the lexicon method")
		topics      = flag.Int("k", 0, "number of topics (required for -stage topics)")
		seed        = flag.Int64("seed", 1, "random seed for splits and topic-model init")
		minDocFreq  = flag.Int("min-doc-freq", 2, "prune terms seen in fewer documents")
		maxDocRatio = flag.Float64("max-doc-ratio", 0.95, "prune terms seen in more than this fraction of documents")
		modelPath   = flag.String("model", "", "topic-model artifact; loaded if it exists, written after fitting otherwise")
		testSplit   = flag.Float64("test-split", 0.25, "held-out fraction for -stage classify")
		topN        = flag.Int("top", 10, "how many top terms/documents to print")
	)
	flag.Parse()

	if *stage == "" || *corpusPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	corpus, err := textdata.LoadCorpus(*corpusPath)
	if err != nil {
		log.Fatalf("loading corpus: %v", err)
	}
	log.Printf("loaded %d documents (%d skipped)", corpus.Len(), len(corpus.Skipped))
	for _, s := range corpus.Skipped {
		log.Printf("skipped %s: %s", s.ID, s.Reason)
	}

	switch *stage {
	case "sentiment":
		err = runSentiment(corpus, *lexiconPath, *lexiconName)
	case "topics":
		err = runTopics(corpus, *topics, uint64(*seed), *minDocFreq, *maxDocRatio, *modelPath, *topN)
	case "classify":
		err = runClassify(corpus, *seed, *testSplit, *minDocFreq, *maxDocRatio, *topN)
	case "evaluate":
		err = runEvaluate(corpus, *lexiconPath, *lexiconName)
	default:
		log.Fatalf("unknown stage %q", *stage)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runSentiment(corpus *textdata.Corpus, lexiconPath, lexiconName string) error {
	if lexiconPath == "" {
		return fmt.Errorf("-lexicon is required for the sentiment stage")
	}
	lexicon, err := textdata.LoadLexicon(lexiconName, lexiconPath)
	if err != nil {
		return err
	}

	tokenized, skipped := textdata.TokenizeCorpus(corpus, textdata.NewSocialTokenizer())
	for _, s := range skipped {
		log.Printf("skipped %s: %s", s.ID, s.Reason)
	}

	scores, unscored := textdata.NewDictionaryScorer(lexicon).Score(tokenized)
	coverage := textdata.Coverage(scores, corpus.Len())
	fmt.Printf("%s scored %d of %d documents (%.0f%%, %s)\n",
		lexicon.Name, coverage.Scored, coverage.Total, 100*coverage.Fraction, coverage.Subset)
	fmt.Printf("%d documents had no lexicon matches\n", len(unscored))

	summary := textdata.SummarizeByLabel(scores, corpus.Labels())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "label\tn\tmean\tmedian")
	for label := 0; label <= 1; label++ {
		if g, ok := summary.ByLabel[label]; ok {
			fmt.Fprintf(w, "%d\t%d\t%.3f\t%.3f\n", label, g.N, g.Mean, g.Median)
		}
	}
	w.Flush()

	if test, err := textdata.DiffInMeans(scores, corpus.Labels()); err == nil {
		fmt.Printf("difference in means %.3f (t=%.2f, p=%.4f, %s)\n", test.MeanDiff, test.T, test.P, test.Subset)
	}
	return nil
}

func runTopics(corpus *textdata.Corpus, k int, seed uint64, minDocFreq int, maxDocRatio float64, modelPath string, topN int) error {
	model, err := loadOrFitTopics(corpus, k, seed, minDocFreq, maxDocRatio, modelPath)
	if err != nil {
		return err
	}

	for topic := 0; topic < model.K(); topic++ {
		terms, err := model.TopicTerms(topic, topN)
		if err != nil {
			return err
		}
		fmt.Printf("topic %d:", topic+1)
		for _, t := range terms {
			fmt.Printf(" %s", t.Term)
		}
		fmt.Println()

		docs, err := model.TopDocuments(topic, 3)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if doc, ok := corpus.Doc(d.DocID); ok {
				fmt.Printf("  %.3f %s: %s\n", d.Weight, d.DocID, doc.Text)
			}
		}
	}

	_, edges := model.TopicCorrelations(0.3)
	for _, e := range edges {
		fmt.Printf("topics %d and %d correlate at r=%.2f\n", e.A+1, e.B+1, e.R)
	}
	return nil
}

func loadOrFitTopics(corpus *textdata.Corpus, k int, seed uint64, minDocFreq int, maxDocRatio float64, modelPath string) (*textdata.TopicModel, error) {
	if modelPath != "" {
		if _, err := os.Stat(modelPath); err == nil {
			log.Printf("loading topic model from %s", modelPath)
			return textdata.LoadTopicModel(modelPath)
		}
	}

	tokenized, skipped := textdata.TokenizeCorpus(corpus, textdata.NewNormalizeTokenizer())
	for _, s := range skipped {
		log.Printf("skipped %s: %s", s.ID, s.Reason)
	}
	vocab, kept, dropped, err := textdata.BuildVocabulary(tokenized, textdata.VocabConfig{
		MinDocFreq:  minDocFreq,
		MaxDocRatio: maxDocRatio,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("vocabulary has %d terms; %d documents dropped by pruning", vocab.Size(), len(dropped))

	cfg := textdata.DefaultTopicConfig(k)
	cfg.Seed = seed
	model, err := textdata.FitTopicModel(textdata.BuildDTM(vocab, kept), cfg)
	if err != nil {
		return nil, err
	}
	if modelPath != "" {
		if err := model.Save(modelPath); err != nil {
			return nil, err
		}
		log.Printf("saved topic model to %s", modelPath)
	}
	return model, nil
}

func runClassify(corpus *textdata.Corpus, seed int64, testSplit float64, minDocFreq int, maxDocRatio float64, topN int) error {
	train, test := textdata.SplitDocuments(corpus.Docs, testSplit, seed)
	trainCorpus := &textdata.Corpus{Docs: train}
	testCorpus := &textdata.Corpus{Docs: test}

	tokenizer := textdata.NewNormalizeTokenizer()
	trainTokens, _ := textdata.TokenizeCorpus(trainCorpus, tokenizer)
	vocab, kept, dropped, err := textdata.BuildVocabulary(trainTokens, textdata.VocabConfig{
		MinDocFreq:  minDocFreq,
		MaxDocRatio: maxDocRatio,
	})
	if err != nil {
		return err
	}
	log.Printf("vocabulary has %d terms; %d training documents dropped", vocab.Size(), len(dropped))

	classifier, err := textdata.TrainClassifierPath(
		textdata.BuildDTM(vocab, kept), corpus.Labels(), textdata.DefaultClassifierConfig(), nil)
	if err != nil {
		return err
	}
	for _, warn := range classifier.Warnings {
		log.Printf("warning: %s", warn)
	}

	testTokens, _ := textdata.TokenizeCorpus(testCorpus, tokenizer)
	testDTM := textdata.BuildDTM(vocab, testTokens)

	fmt.Printf("majority baseline: %.3f\n", textdata.MajorityBaseline(corpus.Labels()))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "lambda\taccuracy\tfrac positive\tn")
	for step := range classifier.Steps {
		eval, err := classifier.Evaluate(step, testDTM, corpus.Labels())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%g\t%.3f\t%.3f\t%d\n", eval.Lambda, eval.Accuracy, eval.FractionPositive, eval.N)
	}
	w.Flush()

	coefs, err := classifier.TopCoefficients(0, topN)
	if err != nil {
		return err
	}
	fmt.Println("top coefficients at the smallest lambda:")
	for _, c := range coefs {
		name := c.Term
		if c.Intercept {
			name = "(intercept)"
		}
		fmt.Printf("  %-20s %+.4f\n", name, c.Weight)
	}
	return nil
}

func runEvaluate(corpus *textdata.Corpus, lexiconPath, lexiconName string) error {
	if lexiconPath == "" {
		return fmt.Errorf("-lexicon is required for the evaluate stage")
	}
	lexicon, err := textdata.LoadLexicon(lexiconName, lexiconPath)
	if err != nil {
		return err
	}

	tokenized, skipped := textdata.TokenizeCorpus(corpus, textdata.NewSocialTokenizer())
	for _, s := range skipped {
		log.Printf("skipped %s: %s", s.ID, s.Reason)
	}
	dictScores, unscored := textdata.NewDictionaryScorer(lexicon).Score(tokenized)
	log.Printf("%d documents had no lexicon matches", len(unscored))
	vaderScores := textdata.NewVaderScorer().Score(corpus.Docs)

	corr, err := textdata.Correlate(dictScores, vaderScores)
	if err != nil {
		return err
	}
	fmt.Printf("%s vs vader: r=%.3f over %d documents (%s)\n", lexicon.Name, corr.R, corr.N, corr.Subset)

	for _, scores := range []*textdata.ScoreSet{dictScores, vaderScores} {
		coverage := textdata.Coverage(scores, corpus.Len())
		fmt.Printf("%s coverage: %d/%d (%s)\n", scores.Method, coverage.Scored, coverage.Total, coverage.Subset)
		if test, err := textdata.DiffInMeans(scores, corpus.Labels()); err == nil {
			fmt.Printf("%s difference in means %.3f (t=%.2f, p=%.4f)\n", scores.Method, test.MeanDiff, test.T, test.P)
		}
	}
	return nil
}
