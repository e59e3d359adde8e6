package corpus

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
)

// Reader reads CSV records like csv.Reader but reports every blank line
// between records as an empty record, so record numbers follow the
// physical rows of the file. Blank lines after the last record are ignored.
type Reader struct {
	csv      *csv.Reader
	blank    int      // blank lines still to report
	next     []string // record read past the blank lines
	lastLine int      // line the previous record ended on
}

// NewReader returns a lenient Reader: variable field counts and lazy quotes
func NewReader(r io.Reader) *Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return &Reader{csv: reader}
}

// Read returns the next record, an empty slice for a blank line
func (r *Reader) Read() ([]string, error) {
	if r.blank > 0 {
		r.blank--
		return []string{}, nil
	}
	if r.next != nil {
		record := r.next
		r.next = nil
		return record, nil
	}

	record, err := r.csv.Read()
	if err != nil {
		return nil, err
	}

	startLine, _ := r.csv.FieldPos(0)
	last := len(record) - 1
	endLine, _ := r.csv.FieldPos(last)
	endLine += strings.Count(record[last], "\n")

	skipped := startLine - r.lastLine - 1
	r.lastLine = endLine
	if skipped > 0 {
		r.blank = skipped - 1
		r.next = record
		return []string{}, nil
	}
	return record, nil
}

// recordWriter writes CSV records terminated by CRLF. Field contents are
// written byte for byte, line breaks inside quoted fields included.
type recordWriter struct {
	out *bufio.Writer
	buf bytes.Buffer
	enc *csv.Writer
}

func newRecordWriter(w io.Writer) *recordWriter {
	rw := &recordWriter{out: bufio.NewWriter(w)}
	rw.enc = csv.NewWriter(&rw.buf)
	return rw
}

func (rw *recordWriter) Write(record []string) error {
	rw.buf.Reset()
	if err := rw.enc.Write(record); err != nil {
		return err
	}
	rw.enc.Flush()
	if err := rw.enc.Error(); err != nil {
		return err
	}

	// csv.Writer ends the record with a single \n
	line := bytes.TrimSuffix(rw.buf.Bytes(), []byte{'\n'})
	if _, err := rw.out.Write(line); err != nil {
		return err
	}
	_, err := rw.out.WriteString("\r\n")
	return err
}

func (rw *recordWriter) Flush() error {
	return rw.out.Flush()
}
