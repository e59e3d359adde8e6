// Package store keeps unknown-word statistics of translation runs in a
// SQLite database so that the most frequent gaps in a dictionary can be
// found across many corpora.
package store
