package corpus

import "sort"

// WordCount pairs an unknown word with its number of occurrences
type WordCount struct {
	Word  string `yaml:"word"`
	Count int    `yaml:"count,omitempty"`
}

// Result summarizes a corpus translation run
type Result struct {
	Rows        int                 // Data rows read, header excluded
	Skipped     int                 // Rows dropped by the skip policy
	Unknown     map[string]struct{} // Unique unknown words of the run
	Frequencies map[string]int      // Unknown word occurrences; nil unless tracked
}

func newResult(track bool) *Result {
	result := &Result{
		Unknown: make(map[string]struct{}),
	}
	if track {
		result.Frequencies = make(map[string]int)
	}
	return result
}

// addUnknown folds the unknown words of one row into the run totals and
// returns the row's unique words, sorted
func (r *Result) addUnknown(words []string) []string {
	unique := make(map[string]struct{}, len(words))
	for _, word := range words {
		unique[word] = struct{}{}
		r.Unknown[word] = struct{}{}
		if r.Frequencies != nil {
			r.Frequencies[word]++
		}
	}
	return sortedKeys(unique)
}

// UnknownWords returns the unique unknown words, sorted
func (r *Result) UnknownWords() []string {
	return sortedKeys(r.Unknown)
}

// TopUnknown returns up to n unknown words, most frequent first.
// Without frequencies the words are returned alphabetically without counts.
// n <= 0 returns all of them.
func (r *Result) TopUnknown(n int) []WordCount {
	words := r.UnknownWords()
	counts := make([]WordCount, 0, len(words))
	for _, word := range words {
		counts = append(counts, WordCount{Word: word, Count: r.Frequencies[word]})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
