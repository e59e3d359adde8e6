package compare

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"

	"codeberg.org/snonux/corpustrans/internal/corpus"
)

// Options configures a Viewer
type Options struct {
	TextCol int  // Index of the text column in both files
	Color   bool // Highlight row headers with ANSI colors
}

// Viewer shows source/target row pairs
type Viewer struct {
	out     io.Writer
	options Options
}

// NewViewer creates a viewer writing to out (stdout when nil)
func NewViewer(out io.Writer, options Options) *Viewer {
	if out == nil {
		out = os.Stdout
	}
	return &Viewer{
		out:     out,
		options: options,
	}
}

// ByRow prints every requested row (0-based, header included) and stops
// once all of them were shown. It returns the number of rows printed.
func (v *Viewer) ByRow(sourcePath, targetPath string, rows []int) (int, error) {
	wanted := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		wanted[row] = struct{}{}
	}
	if len(wanted) == 0 {
		return 0, nil
	}

	shown := 0
	err := v.walk(sourcePath, targetPath, func(rowNr int, source, target []string) (bool, error) {
		if _, ok := wanted[rowNr]; !ok {
			return true, nil
		}
		if err := v.show(rowNr, source, target); err != nil {
			return false, err
		}
		shown++
		delete(wanted, rowNr)
		return len(wanted) > 0, nil
	})
	return shown, err
}

// ByContent prints the first firstN rows whose source text contains
// search. firstN <= 0 prints every match. It returns the number of rows printed.
func (v *Viewer) ByContent(sourcePath, targetPath, search string, firstN int) (int, error) {
	found := 0
	err := v.walk(sourcePath, targetPath, func(rowNr int, source, target []string) (bool, error) {
		text, err := v.text(rowNr, source)
		if err != nil {
			return false, err
		}
		if !strings.Contains(text, search) {
			return true, nil
		}
		if err := v.show(rowNr, source, target); err != nil {
			return false, err
		}
		found++
		return firstN <= 0 || found < firstN, nil
	})
	return found, err
}

// walk reads both files in lockstep until visit returns false or
// either file ends
func (v *Viewer) walk(sourcePath, targetPath string, visit func(rowNr int, source, target []string) (bool, error)) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	targetFile, err := os.Open(targetPath)
	if err != nil {
		return fmt.Errorf("failed to open target file: %w", err)
	}
	defer targetFile.Close()

	sourceReader := corpus.NewReader(sourceFile)
	targetReader := corpus.NewReader(targetFile)

	for rowNr := 0; ; rowNr++ {
		source, err := sourceReader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read source row %d: %w", rowNr, err)
		}

		target, err := targetReader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read target row %d: %w", rowNr, err)
		}

		more, err := visit(rowNr, source, target)
		if err != nil || !more {
			return err
		}
	}
}

func (v *Viewer) show(rowNr int, source, target []string) error {
	sourceText, err := v.text(rowNr, source)
	if err != nil {
		return err
	}
	targetText, err := v.text(rowNr, target)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("*** text row %d ***", rowNr)
	if v.options.Color {
		header = color.New(color.FgCyan, color.OpBold).Sprint(header)
	}

	_, err = fmt.Fprintf(v.out, "\n%s\n\nSource:\n%s\n\nTarget:\n%s\n", header, sourceText, targetText)
	return err
}

// text returns the text column of row. A blank line has no text.
func (v *Viewer) text(rowNr int, row []string) (string, error) {
	if len(row) == 0 {
		return "", nil
	}
	if v.options.TextCol < 0 || v.options.TextCol >= len(row) {
		return "", fmt.Errorf("row %d has %d fields, text column is %d", rowNr, len(row), v.options.TextCol)
	}
	return row[v.options.TextCol], nil
}
