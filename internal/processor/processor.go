package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"codeberg.org/snonux/corpustrans/internal"
	"codeberg.org/snonux/corpustrans/internal/archive"
	"codeberg.org/snonux/corpustrans/internal/cli"
	"codeberg.org/snonux/corpustrans/internal/compare"
	"codeberg.org/snonux/corpustrans/internal/corpus"
	"codeberg.org/snonux/corpustrans/internal/dictionary"
	"codeberg.org/snonux/corpustrans/internal/store"
	"codeberg.org/snonux/corpustrans/internal/suggest"
	"codeberg.org/snonux/corpustrans/internal/translation"
)

// Processor handles the work behind every corpustrans subcommand
type Processor struct {
	flags       *cli.Flags
	out         io.Writer
	errOut      io.Writer
	newProvider func(ctx context.Context, config *suggest.Config) (suggest.Provider, error)
	listModels  func(ctx context.Context, apiKey string) ([]string, error)
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:       flags,
		out:         os.Stdout,
		errOut:      os.Stderr,
		newProvider: suggest.NewProvider,
		listModels:  suggest.ListChatModels,
	}
}

func (p *Processor) dictionaryOptions() dictionary.Options {
	return dictionary.Options{
		Reverse:   p.flags.ReversePairs,
		CSV:       p.flags.PairsCSV,
		Normalize: p.flags.Normalize,
	}
}

// loadDictionary reads the pair file. A missing file only produces a
// warning since every word is then reported as unknown.
func (p *Processor) loadDictionary() (dictionary.Dictionary, error) {
	path := p.flags.PairsFile
	if path == "" {
		fmt.Fprintln(p.errOut, "Warning: no pair file given, all words will be unknown")
		return dictionary.Dictionary{}, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(p.errOut, "Warning: pair file %s not found, all words will be unknown\n", path)
	}

	dict, err := dictionary.Load(path, p.dictionaryOptions())
	if err != nil {
		return nil, err
	}
	return dict, nil
}

func (p *Processor) corpusOptions() (*corpus.Options, error) {
	policy, err := corpus.ParseShortRowPolicy(p.flags.ShortRows)
	if err != nil {
		return nil, err
	}

	return &corpus.Options{
		OOVMarker:      p.flags.OOVMarker,
		Header:         p.flags.Header,
		TextCol:        p.flags.TextCol,
		KeepLines:      p.flags.KeepLines,
		UpdateInterval: p.flags.UpdateInterval,
		ShowUnknown:    p.flags.ShowUnknown,
		TrackUnknown:   p.flags.TrackUnknown,
		Normalize:      p.flags.Normalize,
		ShortRows:      policy,
		Progress:       p.out,
	}, nil
}

// Translate translates a CSV corpus into outputPath and records the run
func (p *Processor) Translate(corpusPath, outputPath string) error {
	opts, err := p.corpusOptions()
	if err != nil {
		return err
	}

	dict, err := p.loadDictionary()
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Loaded %d pairs\n", len(dict))

	if p.flags.Archive {
		archived, err := archive.ArchiveOutput(outputPath)
		if err != nil {
			return fmt.Errorf("failed to archive previous output: %w", err)
		}
		if archived != "" {
			fmt.Fprintf(p.out, "Archived previous output to %s\n", archived)
		}
	}

	driver := corpus.NewDriver(dict, opts)
	result, err := driver.TranslateFile(corpusPath, outputPath)
	if err != nil {
		return err
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Translation Summary ===\n")
	fmt.Fprintf(p.out, "Rows translated: %d\n", result.Rows-result.Skipped)
	if result.Skipped > 0 {
		fmt.Fprintf(p.out, "Rows skipped: %d\n", result.Skipped)
	}
	fmt.Fprintf(p.out, "Unique unknown words: %d\n", len(result.Unknown))
	fmt.Fprintf(p.out, "Output written to: %s\n", outputPath)

	finishedAt := time.Now().UTC()

	if p.flags.OOVDatabase != "" {
		if err := p.saveRun(corpusPath, outputPath, finishedAt, result); err != nil {
			return err
		}
	}

	if p.flags.ReportFile != "" {
		report := corpus.NewReport(result, p.flags.ReportTop)
		report.Corpus = corpusPath
		report.Output = outputPath
		report.Pairs = p.flags.PairsFile
		report.DictionarySize = len(dict)
		if err := corpus.WriteReport(p.flags.ReportFile, report); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Report written to: %s\n", p.flags.ReportFile)
	}

	return nil
}

func (p *Processor) saveRun(corpusPath, outputPath string, finishedAt time.Time, result *corpus.Result) error {
	db, err := store.Open(p.flags.OOVDatabase)
	if err != nil {
		return err
	}
	defer db.Close()

	counts := result.Frequencies
	if counts == nil {
		// Untracked runs still record which words were missing
		counts = make(map[string]int, len(result.Unknown))
		for word := range result.Unknown {
			counts[word] = 1
		}
	}

	run := store.Run{
		ID:         internal.GenerateRunID(corpusPath),
		Corpus:     corpusPath,
		Output:     outputPath,
		FinishedAt: finishedAt,
		Rows:       result.Rows,
		Skipped:    result.Skipped,
	}
	if err := db.SaveRun(run, counts); err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Recorded run %s in %s\n", run.ID, p.flags.OOVDatabase)
	return nil
}

// TranslateText translates free text and lists its unknown words
func (p *Processor) TranslateText(text string) error {
	dict, err := p.loadDictionary()
	if err != nil {
		return err
	}

	opts := translation.Options{
		OOVMarker: p.flags.OOVMarker,
		KeepLines: p.flags.KeepLines,
		Normalize: p.flags.Normalize,
	}
	translated, unknown := translation.TranslateText(text, dict, opts)

	fmt.Fprintln(p.out, translated)
	if len(unknown) > 0 {
		fmt.Fprintf(p.errOut, "Unknown words: %s\n", strings.Join(unknown, ", "))
	}
	return nil
}

func (p *Processor) viewer() *compare.Viewer {
	return compare.NewViewer(p.out, compare.Options{
		TextCol: p.flags.TextCol,
		Color:   p.flags.Color,
	})
}

// CompareRows prints the given rows of a source corpus and its translation
func (p *Processor) CompareRows(sourcePath, targetPath string, rows []int) error {
	shown, err := p.viewer().ByRow(sourcePath, targetPath, rows)
	if err != nil {
		return err
	}
	requested := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		requested[row] = struct{}{}
	}
	if shown < len(requested) {
		fmt.Fprintf(p.errOut, "Warning: only %d of %d requested rows exist\n", shown, len(requested))
	}
	return nil
}

// CompareSearch prints the rows whose source text contains search
func (p *Processor) CompareSearch(sourcePath, targetPath, search string) error {
	shown, err := p.viewer().ByContent(sourcePath, targetPath, search, p.flags.First)
	if err != nil {
		return err
	}
	if shown == 0 {
		fmt.Fprintf(p.errOut, "No rows contain %q\n", search)
	}
	return nil
}

func (p *Processor) suggestConfig() *suggest.Config {
	config := suggest.DefaultConfig()
	config.Provider = p.flags.Provider
	config.SourceLang = p.flags.SourceLang
	config.TargetLang = p.flags.TargetLang
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = p.flags.OpenAIModel
	config.OpenAIBaseURL = p.flags.OpenAIBaseURL
	config.GeminiKey = cli.GetGeminiKey()
	config.GeminiModel = p.flags.GeminiModel
	config.Breaker = !p.flags.NoBreaker
	config.Log = p.errOut
	return config
}

// Suggest asks the configured provider for translations of the most
// frequent collected unknown words and appends them to the pair file
func (p *Processor) Suggest(ctx context.Context) error {
	if p.flags.OOVDatabase == "" {
		return fmt.Errorf("no OOV database given, use --oov-db")
	}
	if p.flags.PairsFile == "" && !p.flags.DryRun {
		return fmt.Errorf("no pair file given, use --pairs or --dry-run")
	}

	db, err := store.Open(p.flags.OOVDatabase)
	if err != nil {
		return err
	}
	defer db.Close()

	dict, err := p.loadDictionary()
	if err != nil {
		return err
	}

	// The limit applies after words the dictionary already knows are dropped
	candidates, err := db.TopUnknown(0, p.flags.MinCount)
	if err != nil {
		return err
	}

	var words, known []string
	for _, candidate := range candidates {
		if _, ok := dict.Lookup(candidate.Word); ok {
			known = append(known, candidate.Word)
			continue
		}
		if p.flags.Limit > 0 && len(words) >= p.flags.Limit {
			continue
		}
		words = append(words, candidate.Word)
	}

	// Words the dictionary learned since they were recorded are no longer pending
	if len(known) > 0 {
		if err := db.Forget(known); err != nil {
			return err
		}
	}

	if len(words) == 0 {
		fmt.Fprintln(p.out, "No unknown words waiting for suggestions")
		return nil
	}

	provider, err := p.newProvider(ctx, p.suggestConfig())
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "Requesting %d suggestions from %s\n", len(words), provider.Name())
	suggester := suggest.NewSuggester(provider)
	suggester.SetProgressWriter(p.errOut)
	suggester.SetConcurrency(p.flags.Workers)
	suggestions, err := suggester.Run(ctx, words)
	if err != nil && len(suggestions) == 0 {
		return err
	}

	for _, word := range words {
		if target, ok := suggestions[word]; ok {
			fmt.Fprintf(p.out, "  %s -> %s\n", word, target)
		}
	}

	if p.flags.DryRun {
		fmt.Fprintf(p.out, "Dry run: %d suggestions not written\n", len(suggestions))
		return err
	}

	written, appendErr := dictionary.AppendPairs(p.flags.PairsFile, suggestions, p.dictionaryOptions())
	if appendErr != nil {
		return appendErr
	}
	fmt.Fprintf(p.out, "Added %d pairs to %s\n", written, p.flags.PairsFile)

	answered := make([]string, 0, len(suggestions))
	for word := range suggestions {
		answered = append(answered, word)
	}
	if forgetErr := db.Forget(answered); forgetErr != nil {
		return forgetErr
	}

	// Report an interrupted run after keeping what was already answered
	return err
}

// ListModels prints the OpenAI chat models usable for suggestions
func (p *Processor) ListModels(ctx context.Context) error {
	models, err := p.listModels(ctx, cli.GetOpenAIKey())
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Available chat models:")
	for _, model := range models {
		fmt.Fprintf(p.out, "  - %s\n", model)
	}
	fmt.Fprintf(p.out, "\nUse --openai-model to pick one for the suggest command.\n")
	return nil
}
