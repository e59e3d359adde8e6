package dictionary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// AppendPairs appends source/target pairs to the pair file at path in the
// format and column order described by opts, creating the file if needed.
// Pairs whose words cannot be written in the whitespace format are skipped.
// It returns the number of pairs written.
func AppendPairs(path string, pairs map[string]string, opts Options) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	if err := ensureTrailingNewline(path); err != nil {
		return 0, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open pair file for append: %w", err)
	}
	defer file.Close()

	sources := make([]string, 0, len(pairs))
	for source := range pairs {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	written := 0
	var writer *csv.Writer
	if opts.CSV {
		writer = csv.NewWriter(file)
	}

	for _, source := range sources {
		target := pairs[source]
		record := []string{source, target}
		if opts.Reverse {
			record = []string{target, source}
		}

		if writer != nil {
			if err := writer.Write(record); err != nil {
				return written, fmt.Errorf("failed to write pair: %w", err)
			}
		} else {
			if !isSingleToken(source) || !isSingleToken(target) {
				continue
			}
			if _, err := fmt.Fprintf(file, "%s %s\n", record[0], record[1]); err != nil {
				return written, fmt.Errorf("failed to write pair: %w", err)
			}
		}
		written++
	}

	if writer != nil {
		writer.Flush()
		if err := writer.Error(); err != nil {
			return written, fmt.Errorf("failed to flush pairs: %w", err)
		}
	}

	return written, nil
}

// isSingleToken reports whether s survives a whitespace split unchanged
func isSingleToken(s string) bool {
	fields := strings.Fields(s)
	return len(fields) == 1 && fields[0] == s
}

// ensureTrailingNewline makes sure appended pairs start on a fresh line
func ensureTrailingNewline(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open pair file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat pair file: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := file.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read pair file: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}

	if _, err := file.WriteAt([]byte("\n"), info.Size()); err != nil {
		return fmt.Errorf("failed to terminate pair file: %w", err)
	}
	return nil
}
