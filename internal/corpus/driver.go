package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"codeberg.org/snonux/corpustrans/internal/dictionary"
	"codeberg.org/snonux/corpustrans/internal/translation"
)

// ErrShortRow is returned when a row has no text column under the fail policy
var ErrShortRow = errors.New("row has no text column")

// Driver translates whole corpus files with one dictionary
type Driver struct {
	options    *Options
	translator *translation.Translator
	now        func() time.Time
}

// NewDriver creates a corpus driver. A nil options value uses DefaultOptions.
func NewDriver(dict dictionary.Dictionary, options *Options) *Driver {
	if options == nil {
		options = DefaultOptions()
	}
	return &Driver{
		options:    options,
		translator: translation.NewTranslator(dict, options.translationOptions()),
		now:        time.Now,
	}
}

// TranslateFile translates corpusPath into outputPath, replacing any existing output
func (d *Driver) TranslateFile(corpusPath, outputPath string) (*Result, error) {
	in, err := os.Open(corpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	result, err := d.Translate(in, out)
	if err != nil {
		return result, err
	}

	if err := out.Close(); err != nil {
		return result, fmt.Errorf("failed to close output file: %w", err)
	}
	return result, nil
}

// Translate reads CSV records from r and writes them with the text column
// translated to w. Rows buffered but not yet flushed are lost when an
// error aborts the run.
func (d *Driver) Translate(r io.Reader, w io.Writer) (*Result, error) {
	opts := d.options
	if opts.TextCol < 0 {
		return nil, fmt.Errorf("invalid text column %d", opts.TextCol)
	}

	reader := NewReader(r)
	writer := newRecordWriter(w)

	result := newResult(opts.TrackUnknown)
	var pending [][]string

	flush := func() error {
		for _, row := range pending {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		pending = pending[:0]
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush output: %w", err)
		}
		return nil
	}

	if opts.Header {
		header, err := reader.Read()
		if err != nil && err != io.EOF {
			return result, fmt.Errorf("failed to read header: %w", err)
		}
		if err == nil {
			pending = append(pending, header)
		}
	}

	counter := 0
	for ; ; counter++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Rows = counter
			return result, fmt.Errorf("failed to read row %d: %w", counter, err)
		}

		if len(row) <= opts.TextCol {
			switch opts.ShortRows {
			case ShortRowsSkip:
				result.Skipped++
				if err := d.maybeFlush(counter, flush); err != nil {
					result.Rows = counter + 1
					return result, err
				}
				continue
			case ShortRowsPad:
				row = append(row, make([]string, opts.TextCol+1-len(row))...)
			default:
				result.Rows = counter
				return result, fmt.Errorf("row %d has %d fields, text column is %d: %w",
					counter, len(row), opts.TextCol, ErrShortRow)
			}
		}

		translated, unknown := d.translator.Translate(row[opts.TextCol])
		if len(unknown) > 0 {
			rowUnknown := result.addUnknown(unknown)
			if opts.ShowUnknown {
				d.printf("Unknown words in row %d: {%s}\n", counter, strings.Join(rowUnknown, ", "))
			}
		}
		row[opts.TextCol] = translated
		pending = append(pending, row)

		if err := d.maybeFlush(counter, flush); err != nil {
			result.Rows = counter + 1
			return result, err
		}
	}
	result.Rows = counter

	if err := flush(); err != nil {
		return result, err
	}
	d.printf("processed %d texts\n", counter)
	d.printf("\nFinished at %s\n", d.now().Format("2006-01-02 15:04:05.000000"))

	return result, nil
}

// maybeFlush writes the buffered rows once every UpdateInterval rows
func (d *Driver) maybeFlush(counter int, flush func() error) error {
	interval := d.options.UpdateInterval
	if interval <= 0 || (counter+1)%interval != 0 {
		return nil
	}
	if err := flush(); err != nil {
		return err
	}
	d.printf("processed %d texts\n", counter+1)
	return nil
}

func (d *Driver) printf(format string, args ...any) {
	out := d.options.Progress
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}
