// Package corpus translates the text column of CSV corpora row by row.
// Rows are streamed from the input, buffered, and flushed to the output
// at a fixed interval while unknown-word statistics are accumulated for
// the whole run.
package corpus
