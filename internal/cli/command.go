package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/corpustrans/internal"
)

// Runner executes the work behind each subcommand.
type Runner interface {
	Translate(corpusPath, outputPath string) error
	TranslateText(text string) error
	CompareRows(sourcePath, targetPath string, rows []int) error
	CompareSearch(sourcePath, targetPath, search string) error
	Suggest(ctx context.Context) error
	ListModels(ctx context.Context) error
}

// configKeys maps flag names to their viper configuration keys
var configKeys = map[string]string{
	"pairs":           "dictionary.pairs",
	"reverse-pairs":   "dictionary.reverse",
	"pairs-csv":       "dictionary.csv",
	"normalize":       "dictionary.normalize",
	"text-col":        "corpus.text_col",
	"header":          "corpus.header",
	"short-rows":      "corpus.short_rows",
	"oov-marker":      "translate.oov_marker",
	"keep-lines":      "translate.keep_lines",
	"update-interval": "translate.update_interval",
	"show-unknown":    "translate.show_unknown",
	"track-unknown":   "translate.track_unknown",
	"oov-db":          "output.oov_db",
	"report":          "output.report",
	"report-top":      "output.report_top",
	"archive":         "output.archive",
	"color":           "compare.color",
	"first":           "compare.first",
	"provider":        "suggest.provider",
	"source-lang":     "suggest.source_lang",
	"target-lang":     "suggest.target_lang",
	"openai-model":    "suggest.openai_model",
	"openai-base-url": "suggest.openai_base_url",
	"gemini-model":    "suggest.gemini_model",
	"limit":           "suggest.limit",
	"min-count":       "suggest.min_count",
	"workers":         "suggest.workers",
	"no-breaker":      "suggest.no_breaker",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corpustrans",
		Short: "Word-level dictionary translation of CSV text corpora",
		Long: `corpustrans translates the text column of a CSV corpus word by word
using a bilingual pair dictionary. Words missing from the dictionary are
replaced with a marker and tracked so they can be reviewed or sent to a
suggestion provider later.

Examples:
  corpustrans translate corpus.csv out.csv --pairs en-fr.txt
  corpustrans text --pairs en-fr.txt "the cat sleeps"
  corpustrans compare rows corpus.csv out.csv 1 5 42
  corpustrans suggest --pairs en-fr.txt --oov-db oov.db --dry-run`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfig(cmd.Flags())
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newTranslateCommand(flags, runner),
		newTextCommand(flags, runner),
		newCompareCommand(flags, runner),
		newSuggestCommand(flags, runner),
		newModelsCommand(runner),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.corpustrans.yaml)")

	// Dictionary flags
	cmd.PersistentFlags().StringVarP(&flags.PairsFile, "pairs", "p", flags.PairsFile, "Pair dictionary file")
	cmd.PersistentFlags().BoolVar(&flags.ReversePairs, "reverse-pairs", flags.ReversePairs, "Swap source and target columns of the pair file")
	cmd.PersistentFlags().BoolVar(&flags.PairsCSV, "pairs-csv", flags.PairsCSV, "Read the pair file as two-column CSV instead of whitespace separated")
	cmd.PersistentFlags().BoolVar(&flags.Normalize, "normalize", flags.Normalize, "Apply Unicode NFC normalization to pairs and input text")
	cmd.PersistentFlags().IntVar(&flags.TextCol, "text-col", flags.TextCol, "Zero-based index of the CSV text column")

	bindFlagsToViper(cmd.PersistentFlags())
}

func addTranslationFlags(fs *pflag.FlagSet, flags *Flags) {
	fs.StringVar(&flags.OOVMarker, "oov-marker", flags.OOVMarker, "Replacement for words missing from the dictionary")
	fs.BoolVar(&flags.KeepLines, "keep-lines", flags.KeepLines, "Preserve line breaks inside the text")
}

func newTranslateCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <corpus> <output>",
		Short: "Translate the text column of a CSV corpus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Translate(args[0], args[1])
		},
	}

	fs := cmd.Flags()
	addTranslationFlags(fs, flags)
	fs.BoolVar(&flags.Header, "header", flags.Header, "Copy the first row through untranslated")
	fs.IntVar(&flags.UpdateInterval, "update-interval", flags.UpdateInterval, "Flush output and report progress every N rows (0 disables)")
	fs.BoolVar(&flags.ShowUnknown, "show-unknown", flags.ShowUnknown, "Print the unknown words of each row")
	fs.BoolVar(&flags.TrackUnknown, "track-unknown", flags.TrackUnknown, "Count unknown word frequencies across the corpus")
	fs.StringVar(&flags.ShortRows, "short-rows", flags.ShortRows, "Rows without a text column: fail, skip or pad")
	fs.StringVar(&flags.OOVDatabase, "oov-db", flags.OOVDatabase, "SQLite database collecting unknown words per run")
	fs.StringVar(&flags.ReportFile, "report", flags.ReportFile, "Write a YAML run report to this file")
	fs.IntVar(&flags.ReportTop, "report-top", flags.ReportTop, "Number of most frequent unknown words in the report")
	fs.BoolVar(&flags.Archive, "archive", flags.Archive, "Move an existing output file into an archive directory first")

	bindFlagsToViper(fs)
	return cmd
}

func newTextCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [words...]",
		Short: "Translate text given as arguments or on standard input",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read standard input: %w", err)
				}
				text = string(data)
			}
			return runner.TranslateText(text)
		},
	}

	addTranslationFlags(cmd.Flags(), flags)
	bindFlagsToViper(cmd.Flags())
	return cmd
}

func newCompareCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show source and translated texts side by side",
	}
	cmd.PersistentFlags().BoolVar(&flags.Color, "color", flags.Color, "Highlight block headers")
	bindFlagsToViper(cmd.PersistentFlags())

	rowsCmd := &cobra.Command{
		Use:   "rows <source> <target> <row>...",
		Short: "Compare the given row numbers (header is row 0)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(args[2:])
			if err != nil {
				return err
			}
			return runner.CompareRows(args[0], args[1], rows)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <source> <target> <substring>",
		Short: "Compare the rows whose source text contains a substring",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.CompareSearch(args[0], args[1], args[2])
		},
	}
	searchCmd.Flags().IntVar(&flags.First, "first", flags.First, "Stop after this many matches (0 for all)")
	bindFlagsToViper(searchCmd.Flags())

	cmd.AddCommand(rowsCmd, searchCmd)
	return cmd
}

func newSuggestCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask an AI provider to translate collected unknown words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Suggest(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.OOVDatabase, "oov-db", flags.OOVDatabase, "SQLite database with collected unknown words")
	fs.StringVar(&flags.Provider, "provider", flags.Provider, "Suggestion provider: openai or gemini")
	fs.StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Language of the unknown words")
	fs.StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Language to translate into")
	fs.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model")
	fs.StringVar(&flags.OpenAIBaseURL, "openai-base-url", flags.OpenAIBaseURL, "Alternative OpenAI compatible API endpoint")
	fs.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model")
	fs.IntVar(&flags.Limit, "limit", flags.Limit, "Maximum number of words to request")
	fs.IntVar(&flags.MinCount, "min-count", flags.MinCount, "Only request words seen at least this often")
	fs.IntVar(&flags.Workers, "workers", flags.Workers, "Number of concurrent provider requests")
	fs.BoolVar(&flags.DryRun, "dry-run", flags.DryRun, "Print suggestions without touching the pair file")
	fs.BoolVar(&flags.NoBreaker, "no-breaker", flags.NoBreaker, "Disable the circuit breaker around provider calls")

	bindFlagsToViper(fs)
	return cmd
}

func newModelsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI chat models available for the current API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ListModels(cmd.Context())
		},
	}
}

func parseRows(args []string) ([]int, error) {
	rows := make([]int, 0, len(args))
	for _, arg := range args {
		row, err := strconv.Atoi(arg)
		if err != nil || row < 0 {
			return nil, fmt.Errorf("invalid row number %q", arg)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := configKeys[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	})
}

// applyConfig copies values from the config file and environment into
// flags the user did not set on the command line.
func applyConfig(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := configKeys[f.Name]
		if !ok || f.Changed || err != nil || !viper.IsSet(key) {
			return
		}
		if setErr := fs.Set(f.Name, viper.GetString(key)); setErr != nil {
			err = fmt.Errorf("invalid value for %s: %w", key, setErr)
		}
	})
	return err
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".corpustrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".corpustrans")
	}

	// Environment variables, e.g. CORPUSTRANS_TRANSLATE_OOV_MARKER
	viper.SetEnvPrefix("CORPUSTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("suggest.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("suggest.gemini_key")
}
