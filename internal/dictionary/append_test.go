package dictionary

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestAppendPairs(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		pairs    map[string]string
		opts     Options
		wantFile string
		wantN    int
	}{
		{
			name:     "new file",
			pairs:    map[string]string{"dog": "chien", "cat": "chat"},
			wantFile: "cat chat\ndog chien\n",
			wantN:    2,
		},
		{
			name:     "missing trailing newline",
			existing: "bird oiseau",
			pairs:    map[string]string{"cat": "chat"},
			wantFile: "bird oiseau\ncat chat\n",
			wantN:    1,
		},
		{
			name:     "reversed",
			existing: "oiseau bird\n",
			pairs:    map[string]string{"cat": "chat"},
			opts:     Options{Reverse: true},
			wantFile: "oiseau bird\nchat cat\n",
			wantN:    1,
		},
		{
			name:     "multi word skipped in space format",
			pairs:    map[string]string{"cat": "le chat", "dog": "chien"},
			wantFile: "dog chien\n",
			wantN:    1,
		},
		{
			name:     "csv keeps multi word",
			pairs:    map[string]string{"cat": "le chat"},
			opts:     Options{CSV: true},
			wantFile: "cat,le chat\n",
			wantN:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pairs.txt")
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0644); err != nil {
					t.Fatalf("Failed to create pair file: %v", err)
				}
			}

			n, err := AppendPairs(path, tt.pairs, tt.opts)
			if err != nil {
				t.Fatalf("AppendPairs() error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("AppendPairs() wrote %d, want %d", n, tt.wantN)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read pair file: %v", err)
			}
			if string(content) != tt.wantFile {
				t.Errorf("File content = %q, want %q", content, tt.wantFile)
			}
		})
	}
}

func TestAppendPairs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.csv")
	opts := Options{CSV: true, Reverse: true}
	pairs := map[string]string{"cat": "chat", "ice cream": "glace"}

	if _, err := AppendPairs(path, pairs, opts); err != nil {
		t.Fatalf("AppendPairs() error = %v", err)
	}

	got, err := Load(path, opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, Dictionary(pairs)) {
		t.Errorf("Load() = %v, want %v", got, pairs)
	}
}

func TestAppendPairs_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pairs.txt")

	n, err := AppendPairs(path, nil, Options{})
	if err != nil || n != 0 {
		t.Errorf("AppendPairs(nil) = %d, %v", n, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file to be created for empty pairs")
	}
}
