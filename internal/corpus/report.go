package corpus

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the YAML summary written after a run
type Report struct {
	Corpus         string      `yaml:"corpus"`
	Output         string      `yaml:"output"`
	Pairs          string      `yaml:"pairs,omitempty"`
	DictionarySize int         `yaml:"dictionary_size"`
	FinishedAt     time.Time   `yaml:"finished_at"`
	Rows           int         `yaml:"rows"`
	Skipped        int         `yaml:"skipped,omitempty"`
	UniqueUnknown  int         `yaml:"unique_unknown"`
	TopUnknown     []WordCount `yaml:"top_unknown,omitempty"`
}

// NewReport builds a report from a run result, keeping the topN unknown words
func NewReport(result *Result, topN int) *Report {
	return &Report{
		FinishedAt:    time.Now().UTC().Truncate(time.Second),
		Rows:          result.Rows,
		Skipped:       result.Skipped,
		UniqueUnknown: len(result.Unknown),
		TopUnknown:    result.TopUnknown(topN),
	}
}

// WriteReport saves the report as YAML
func WriteReport(path string, report *Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
