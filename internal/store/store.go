package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// Run describes one corpus translation
type Run struct {
	ID         string
	Corpus     string
	Output     string
	FinishedAt time.Time
	Rows       int
	Skipped    int
}

// WordCount is an unknown word with its occurrences summed over runs
type WordCount struct {
	Word  string
	Count int
}

// Store wraps the SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OOV database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id text PRIMARY KEY,
			corpus text NOT NULL,
			output text NOT NULL,
			finished_at integer NOT NULL,
			row_count integer NOT NULL,
			skipped integer NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS unknown_words (
			run_id text NOT NULL REFERENCES runs (id),
			word text NOT NULL,
			count integer NOT NULL,
			PRIMARY KEY (run_id, word)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_unknown_words_word ON unknown_words (word)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SaveRun records a run and its unknown words in one transaction.
// counts maps each unknown word to its occurrences (0 when not tracked).
func (s *Store) SaveRun(run Run, counts map[string]int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = squirrel.Insert("runs").
		Columns("id", "corpus", "output", "finished_at", "row_count", "skipped").
		Values(run.ID, run.Corpus, run.Output, run.FinishedAt.Unix(), run.Rows, run.Skipped).
		RunWith(tx).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO unknown_words (run_id, word, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for word, count := range counts {
		if _, err := stmt.Exec(run.ID, word, count); err != nil {
			return fmt.Errorf("failed to insert unknown word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Runs lists all recorded runs, oldest first
func (s *Store) Runs() ([]Run, error) {
	rows, err := squirrel.Select("id", "corpus", "output", "finished_at", "row_count", "skipped").
		From("runs").
		OrderBy("finished_at", "id").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var finished int64
		if err := rows.Scan(&run.ID, &run.Corpus, &run.Output, &finished, &run.Rows, &run.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// TopUnknown returns unknown words ordered by total occurrences over all
// runs. Words below minCount are left out; limit <= 0 returns all.
func (s *Store) TopUnknown(limit, minCount int) ([]WordCount, error) {
	query := squirrel.Select("word", "SUM(count) AS total").
		From("unknown_words").
		GroupBy("word").
		Having("total >= ?", minCount).
		OrderBy("total DESC", "word ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query unknown words: %w", err)
	}
	defer rows.Close()

	var words []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan unknown word: %w", err)
		}
		words = append(words, wc)
	}
	return words, rows.Err()
}

// forgetBatch keeps IN lists below the SQLite variable limit
const forgetBatch = 500

// Forget removes words from the statistics, typically after they were
// added to the dictionary
func (s *Store) Forget(words []string) error {
	if len(words) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(words); start += forgetBatch {
		end := min(start+forgetBatch, len(words))
		_, err := squirrel.Delete("unknown_words").
			Where(squirrel.Eq{"word": words[start:end]}).
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("failed to delete unknown words: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
