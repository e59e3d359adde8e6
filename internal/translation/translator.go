package translation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/corpustrans/internal/dictionary"
)

// DefaultOOVMarker is prepended to words missing from the dictionary
const DefaultOOVMarker = "*oov*"

// wordPattern matches runs of word characters and hyphens
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_-]+`)

// Options configures a translation
type Options struct {
	OOVMarker string // Prefix for untranslated words; empty copies them unmarked
	KeepLines bool   // Join translated lines with newlines instead of spaces
	Normalize bool   // NFC-normalize tokens before lookup
}

// DefaultOptions returns the marker and line handling used by the CLI
func DefaultOptions() Options {
	return Options{
		OOVMarker: DefaultOOVMarker,
		KeepLines: true,
	}
}

// Tokenize returns the word tokens of a single line. Hyphens are kept
// inside a token but never at its start or end.
func Tokenize(line string) []string {
	runs := wordPattern.FindAllString(line, -1)
	tokens := make([]string, 0, len(runs))
	for _, run := range runs {
		if token := strings.Trim(run, "-"); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// TranslateText translates text word by word using dict. It returns the
// translated text and every unknown word in order of occurrence,
// duplicates included.
func TranslateText(text string, dict dictionary.Dictionary, opts Options) (string, []string) {
	lineJoiner := " "
	if opts.KeepLines {
		lineJoiner = "\n"
	}

	var unknown []string
	lines := strings.Split(text, "\n")
	translatedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		tokens := Tokenize(line)
		translatedWords := make([]string, 0, len(tokens))

		for _, word := range tokens {
			if target, ok := lookup(dict, word, opts.Normalize); ok {
				translatedWords = append(translatedWords, target)
				continue
			}

			if !strings.Contains(word, "-") {
				translatedWords = append(translatedWords, opts.OOVMarker+word)
				unknown = append(unknown, word)
				continue
			}

			subwords := strings.Split(word, "-")
			for i, subword := range subwords {
				if target, ok := lookup(dict, subword, opts.Normalize); ok {
					subwords[i] = target
				} else {
					subwords[i] = opts.OOVMarker + subword
					unknown = append(unknown, subword)
				}
			}
			translatedWords = append(translatedWords, strings.Join(subwords, "-"))
		}

		translatedLines = append(translatedLines, strings.Join(translatedWords, " "))
	}

	return strings.Join(translatedLines, lineJoiner), unknown
}

func lookup(dict dictionary.Dictionary, word string, normalize bool) (string, bool) {
	if normalize {
		word = norm.NFC.String(word)
	}
	return dict.Lookup(word)
}

// Translator applies one dictionary and one set of options to many texts
type Translator struct {
	dict dictionary.Dictionary
	opts Options
}

// NewTranslator creates a new translator instance
func NewTranslator(dict dictionary.Dictionary, opts Options) *Translator {
	if dict == nil {
		dict = dictionary.Dictionary{}
	}
	return &Translator{
		dict: dict,
		opts: opts,
	}
}

// Translate translates a text block, see TranslateText
func (t *Translator) Translate(text string) (string, []string) {
	return TranslateText(text, t.dict, t.opts)
}

// Options returns the options the translator was created with
func (t *Translator) Options() Options {
	return t.opts
}
