package corpus

import (
	"fmt"
	"io"

	"codeberg.org/snonux/corpustrans/internal/translation"
)

// ShortRowPolicy decides what happens to rows that have no text column
type ShortRowPolicy string

const (
	ShortRowsFail ShortRowPolicy = "fail" // Abort the run with ErrShortRow
	ShortRowsSkip ShortRowPolicy = "skip" // Drop the row from the output
	ShortRowsPad  ShortRowPolicy = "pad"  // Add empty fields up to the text column
)

// ParseShortRowPolicy converts a flag or config value into a policy
func ParseShortRowPolicy(s string) (ShortRowPolicy, error) {
	switch policy := ShortRowPolicy(s); policy {
	case ShortRowsFail, ShortRowsSkip, ShortRowsPad:
		return policy, nil
	case "":
		return ShortRowsFail, nil
	default:
		return "", fmt.Errorf("unknown short row policy %q (want fail, skip or pad)", s)
	}
}

// Options configures a corpus translation run
type Options struct {
	OOVMarker      string         // Prefix for untranslated words
	Header         bool           // First record is a header, copied unchanged
	TextCol        int            // Index of the column holding the text
	KeepLines      bool           // Preserve line breaks inside the text
	UpdateInterval int            // Flush and report progress every N rows; <= 0 only at the end
	ShowUnknown    bool           // Print the unknown words of each row
	TrackUnknown   bool           // Count unknown word occurrences
	Normalize      bool           // NFC-normalize tokens before lookup
	ShortRows      ShortRowPolicy // Handling of rows without a text column
	Progress       io.Writer      // Destination of progress messages (default stdout)
}

// DefaultOptions returns sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OOVMarker:      translation.DefaultOOVMarker,
		Header:         false,
		TextCol:        1,
		KeepLines:      true,
		UpdateInterval: 1000,
		ShowUnknown:    true,
		TrackUnknown:   true,
		ShortRows:      ShortRowsFail,
	}
}

func (o *Options) translationOptions() translation.Options {
	return translation.Options{
		OOVMarker: o.OOVMarker,
		KeepLines: o.KeepLines,
		Normalize: o.Normalize,
	}
}
