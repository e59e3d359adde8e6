package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/corpustrans/internal"
)

// ArchiveOutput moves an existing output file into an archive directory
// next to it, with a timestamp in its name. It returns the archived path,
// or an empty string when there was nothing to archive.
func ArchiveOutput(outputPath string) (string, error) {
	info, err := os.Stat(outputPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat output file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("output path is a directory: %s", outputPath)
	}

	archiveDir := filepath.Join(filepath.Dir(outputPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	stem := internal.SanitizeFilename(strings.TrimSuffix(base, ext))

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))
	}

	if err := os.Rename(outputPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output file: %w", err)
	}

	return archivePath, nil
}
