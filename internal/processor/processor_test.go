package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/corpustrans/internal/cli"
	"codeberg.org/snonux/corpustrans/internal/corpus"
	"codeberg.org/snonux/corpustrans/internal/store"
	"codeberg.org/snonux/corpustrans/internal/suggest"
	"codeberg.org/snonux/corpustrans/internal/testutil"
)

func newTestProcessor(flags *cli.Flags) (*Processor, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewProcessor(flags)
	p.out = &out
	p.errOut = &errOut
	return p, &out, &errOut
}

func writePairs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairs.txt")
	testutil.CreateTestFile(t, path, []byte(content))
	return path
}

func TestNewProcessor(t *testing.T) {
	flags := cli.NewFlags()
	p := NewProcessor(flags)

	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}
	if p.newProvider == nil || p.listModels == nil {
		t.Error("Provider factories not initialized")
	}
}

func TestTranslate_RecordsRun(t *testing.T) {
	tmpDir := t.TempDir()
	corpusPath := testutil.CreateCSVFile(t, "corpus.csv", [][]string{
		{"id", "text"},
		{"1", "the cat sleeps"},
		{"2", "the dog sleeps"},
	})
	outputPath := filepath.Join(tmpDir, "out.csv")

	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "the le\ncat chat\n")
	flags.Header = true
	flags.OOVDatabase = filepath.Join(tmpDir, "oov.db")
	flags.ReportFile = filepath.Join(tmpDir, "report.yaml")

	p, out, _ := newTestProcessor(flags)
	if err := p.Translate(corpusPath, outputPath); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	rows := testutil.ReadCSVFile(t, outputPath)
	want := [][]string{
		{"id", "text"},
		{"1", "le chat *oov*sleeps"},
		{"2", "le *oov*dog *oov*sleeps"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("output rows = %v, want %v", rows, want)
	}

	if !strings.Contains(out.String(), "=== Translation Summary ===") {
		t.Errorf("summary missing from output: %s", out.String())
	}

	db, err := store.Open(flags.OOVDatabase)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()

	top, err := db.TopUnknown(0, 1)
	if err != nil {
		t.Fatalf("TopUnknown() error = %v", err)
	}
	wantTop := []store.WordCount{{Word: "sleeps", Count: 2}, {Word: "dog", Count: 1}}
	if !reflect.DeepEqual(top, wantTop) {
		t.Errorf("TopUnknown() = %v, want %v", top, wantTop)
	}

	testutil.AssertFileExists(t, flags.ReportFile)
	report, err := corpus.ReadReport(flags.ReportFile)
	if err != nil {
		t.Fatalf("ReadReport() error = %v", err)
	}
	if report.Rows != 2 || report.UniqueUnknown != 2 || report.DictionarySize != 2 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Corpus != corpusPath || report.Output != outputPath {
		t.Errorf("report paths = %s, %s", report.Corpus, report.Output)
	}
}

func TestTranslate_ArchivesExistingOutput(t *testing.T) {
	tmpDir := t.TempDir()
	corpusPath := testutil.CreateCSVFile(t, "corpus.csv", [][]string{{"1", "cat"}})
	outputPath := filepath.Join(tmpDir, "out.csv")
	testutil.CreateTestFile(t, outputPath, []byte("old\n"))

	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "cat chat\n")
	flags.Archive = true

	p, out, _ := newTestProcessor(flags)
	if err := p.Translate(corpusPath, outputPath); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one archived file, got %v (%v)", entries, err)
	}
	if !strings.Contains(out.String(), "Archived previous output") {
		t.Errorf("archive message missing: %s", out.String())
	}
	testutil.AssertFileContains(t, outputPath, "chat")
}

func TestTranslate_InvalidShortRowPolicy(t *testing.T) {
	flags := cli.NewFlags()
	flags.ShortRows = "ignore"

	p, _, _ := newTestProcessor(flags)
	if err := p.Translate("in.csv", filepath.Join(t.TempDir(), "out.csv")); err == nil {
		t.Error("expected error for unknown short row policy")
	}
}

func TestTranslate_ShortRowFails(t *testing.T) {
	corpusPath := testutil.CreateCSVFile(t, "corpus.csv", [][]string{{"1", "cat"}, {"2"}})

	flags := cli.NewFlags()
	p, _, errOut := newTestProcessor(flags)
	err := p.Translate(corpusPath, filepath.Join(t.TempDir(), "out.csv"))
	if !errors.Is(err, corpus.ErrShortRow) {
		t.Errorf("Translate() error = %v, want ErrShortRow", err)
	}
	if !strings.Contains(errOut.String(), "no pair file given") {
		t.Errorf("missing pair file warning, got %q", errOut.String())
	}
}

func TestTranslateText(t *testing.T) {
	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "the le\ncat chat\n")

	p, out, errOut := newTestProcessor(flags)
	if err := p.TranslateText("the cat, the bird"); err != nil {
		t.Fatalf("TranslateText() error = %v", err)
	}

	if got := out.String(); got != "le chat le *oov*bird\n" {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(errOut.String(), "Unknown words: bird") {
		t.Errorf("unknown words not reported: %q", errOut.String())
	}
}

func TestTranslateText_MissingPairFileWarns(t *testing.T) {
	flags := cli.NewFlags()
	flags.PairsFile = filepath.Join(t.TempDir(), "missing.txt")

	p, out, errOut := newTestProcessor(flags)
	if err := p.TranslateText("cat"); err != nil {
		t.Fatalf("TranslateText() error = %v", err)
	}
	if out.String() != "*oov*cat\n" {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "not found") {
		t.Errorf("expected warning, got %q", errOut.String())
	}
}

func TestCompare(t *testing.T) {
	source := testutil.CreateCSVFile(t, "src.csv", [][]string{
		{"id", "text"},
		{"1", "the cat"},
		{"2", "a dog"},
	})
	target := testutil.CreateCSVFile(t, "tgt.csv", [][]string{
		{"id", "text"},
		{"1", "le chat"},
		{"2", "*oov*a chien"},
	})

	flags := cli.NewFlags()
	p, out, errOut := newTestProcessor(flags)

	if err := p.CompareRows(source, target, []int{2, 9}); err != nil {
		t.Fatalf("CompareRows() error = %v", err)
	}
	if !strings.Contains(out.String(), "*** text row 2 ***") || !strings.Contains(out.String(), "*oov*a chien") {
		t.Errorf("row 2 not shown: %s", out.String())
	}
	if !strings.Contains(errOut.String(), "only 1 of 2") {
		t.Errorf("missing row warning not printed: %q", errOut.String())
	}

	out.Reset()
	if err := p.CompareSearch(source, target, "cat"); err != nil {
		t.Fatalf("CompareSearch() error = %v", err)
	}
	if !strings.Contains(out.String(), "le chat") || strings.Contains(out.String(), "chien") {
		t.Errorf("unexpected search output: %s", out.String())
	}
}

func seedStore(t *testing.T, path string, counts map[string]int) {
	t.Helper()
	db, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()
	if err := db.SaveRun(store.Run{ID: "seed", Corpus: "c.csv", Output: "o.csv"}, counts); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
}

func TestSuggest_AppendsPairs(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tmpDir := t.TempDir()
	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "the le\n")
	flags.OOVDatabase = filepath.Join(tmpDir, "oov.db")
	seedStore(t, flags.OOVDatabase, map[string]int{"cat": 3, "dog": 2, "the": 5, "bird": 1})

	mock := &testutil.MockProvider{
		Suggestions: map[string]string{"cat": "chat", "dog": "chien"},
		Errors:      map[string]error{"bird": errors.New("quota")},
	}

	p, out, _ := newTestProcessor(flags)
	var gotConfig *suggest.Config
	p.newProvider = func(ctx context.Context, config *suggest.Config) (suggest.Provider, error) {
		gotConfig = config
		return mock, nil
	}

	if err := p.Suggest(context.Background()); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if gotConfig == nil || gotConfig.TargetLang != "French" || !gotConfig.Breaker {
		t.Errorf("unexpected provider config: %+v", gotConfig)
	}
	// "the" is already in the dictionary and never reaches the provider
	if !reflect.DeepEqual(mock.Calls, []string{"cat", "dog", "bird"}) {
		t.Errorf("provider calls = %v", mock.Calls)
	}
	testutil.AssertFileContent(t, flags.PairsFile, []byte("the le\ncat chat\ndog chien\n"))
	if !strings.Contains(out.String(), "Added 2 pairs") {
		t.Errorf("output = %s", out.String())
	}

	db, err := store.Open(flags.OOVDatabase)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()
	remaining, err := db.TopUnknown(0, 1)
	if err != nil {
		t.Fatalf("TopUnknown() error = %v", err)
	}
	if !reflect.DeepEqual(remaining, []store.WordCount{{Word: "bird", Count: 1}}) {
		t.Errorf("remaining = %v, want only bird", remaining)
	}
}

func TestSuggest_DryRunAndLimit(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	tmpDir := t.TempDir()
	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "")
	flags.OOVDatabase = filepath.Join(tmpDir, "oov.db")
	flags.DryRun = true
	flags.Limit = 1
	seedStore(t, flags.OOVDatabase, map[string]int{"cat": 3, "dog": 2})

	mock := &testutil.MockProvider{Suggestions: map[string]string{"cat": "chat", "dog": "chien"}}
	p, out, _ := newTestProcessor(flags)
	p.newProvider = func(ctx context.Context, config *suggest.Config) (suggest.Provider, error) {
		return mock, nil
	}

	if err := p.Suggest(context.Background()); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if !reflect.DeepEqual(mock.Calls, []string{"cat"}) {
		t.Errorf("provider calls = %v, want [cat]", mock.Calls)
	}
	if !strings.Contains(out.String(), "cat -> chat") || !strings.Contains(out.String(), "Dry run") {
		t.Errorf("output = %s", out.String())
	}
	testutil.AssertFileContent(t, flags.PairsFile, []byte(""))
}

func TestSuggest_RequiresDatabase(t *testing.T) {
	p, _, _ := newTestProcessor(cli.NewFlags())
	if err := p.Suggest(context.Background()); err == nil {
		t.Error("expected error without --oov-db")
	}
}

func TestSuggest_NothingPending(t *testing.T) {
	flags := cli.NewFlags()
	flags.PairsFile = writePairs(t, "cat chat\n")
	flags.OOVDatabase = filepath.Join(t.TempDir(), "oov.db")
	seedStore(t, flags.OOVDatabase, map[string]int{"cat": 1})

	p, out, _ := newTestProcessor(flags)
	p.newProvider = func(ctx context.Context, config *suggest.Config) (suggest.Provider, error) {
		t.Fatal("provider must not be created")
		return nil, nil
	}

	if err := p.Suggest(context.Background()); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if !strings.Contains(out.String(), "No unknown words") {
		t.Errorf("output = %s", out.String())
	}
}

func TestListModels(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("OPENAI_API_KEY", "test-key")

	p, out, _ := newTestProcessor(cli.NewFlags())
	var gotKey string
	p.listModels = func(ctx context.Context, apiKey string) ([]string, error) {
		gotKey = apiKey
		return []string{"gpt-4o", "gpt-4o-mini"}, nil
	}

	if err := p.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key = %q", gotKey)
	}
	if !strings.Contains(out.String(), "  - gpt-4o-mini") {
		t.Errorf("output = %s", out.String())
	}
}
