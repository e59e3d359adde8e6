package suggest

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Suggester collects suggestions for many words from one provider
type Suggester struct {
	provider    Provider
	timeout     time.Duration
	concurrency int
	progress    io.Writer
}

// NewSuggester creates a suggester that sends one request at a time.
// Progress is drawn on stderr.
func NewSuggester(provider Provider) *Suggester {
	return &Suggester{
		provider:    provider,
		timeout:     30 * time.Second,
		concurrency: 1,
		progress:    os.Stderr,
	}
}

// SetProgressWriter redirects the progress bar and warnings, io.Discard hides them
func (s *Suggester) SetProgressWriter(w io.Writer) {
	s.progress = w
}

// SetConcurrency sets how many requests may be in flight at once
func (s *Suggester) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	s.concurrency = n
}

// Run asks the provider for every word. Failed words are reported on the
// progress writer and left out of the result; a cancelled context stops the run
// and returns what was answered so far.
func (s *Suggester) Run(ctx context.Context, words []string) (map[string]string, error) {
	if err := s.provider.IsAvailable(); err != nil {
		return nil, fmt.Errorf("provider %s not available: %w", s.provider.Name(), err)
	}

	bar := progressbar.NewOptions(len(words),
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", s.provider.Name())),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var mu sync.Mutex
	suggestions := make(map[string]string, len(words))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, word := range words {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			wordCtx, cancel := context.WithTimeout(ctx, s.timeout)
			suggestion, err := s.provider.Suggest(wordCtx, word)
			cancel()

			mu.Lock()
			if err != nil {
				fmt.Fprintf(s.progress, "\nWarning: no suggestion for '%s': %v\n", word, err)
			} else {
				suggestions[word] = suggestion
			}
			bar.Add(1)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return suggestions, err
	}
	return suggestions, nil
}
