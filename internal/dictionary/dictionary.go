package dictionary

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dictionary maps source words to target words
type Dictionary map[string]string

// Lookup returns the translation of word and whether it was found
func (d Dictionary) Lookup(word string) (string, bool) {
	target, ok := d[word]
	return target, ok
}

// Options controls how a pair file is read and written
type Options struct {
	Reverse   bool // Second column is the source word
	CSV       bool // Pairs are comma-separated instead of whitespace-separated
	Normalize bool // NFC-normalize source words
}

// Load reads a pair file into a Dictionary.
// A missing file yields an empty dictionary, not an error.
func Load(path string, opts Options) (Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Dictionary{}, nil
		}
		return nil, fmt.Errorf("failed to open pair file: %w", err)
	}
	defer file.Close()

	return Read(file, opts)
}

// Read parses pairs from r. Records that do not hold exactly two
// fields are skipped, and later pairs overwrite earlier ones.
func Read(r io.Reader, opts Options) (Dictionary, error) {
	dict := Dictionary{}

	add := func(fields []string) {
		if len(fields) != 2 {
			return
		}
		source, target := cleanField(fields[0]), cleanField(fields[1])
		if opts.Reverse {
			source, target = target, source
		}
		if opts.Normalize {
			source = norm.NFC.String(source)
		}
		dict[source] = target
	}

	if opts.CSV {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					continue
				}
				return nil, fmt.Errorf("failed to read pair file: %w", err)
			}
			add(record)
		}
		return dict, nil
	}

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			add(strings.Fields(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read pair file: %w", err)
		}
	}

	return dict, nil
}

// cleanField drops byte sequences that are not valid UTF-8
func cleanField(s string) string {
	return strings.ToValidUTF8(s, "")
}
