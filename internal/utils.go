package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
	"unicode"
)

// GenerateRunID creates a unique ID for a translation run based on timestamp and corpus path
// Format: epochMillis_md5(path)[:8]
func GenerateRunID(corpusPath string) string {
	return generateRunIDAt(corpusPath, time.Now())
}

func generateRunIDAt(corpusPath string, now time.Time) string {
	epochMillis := now.UnixNano() / 1000000

	hash := md5.Sum([]byte(corpusPath))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' || r == '.' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
