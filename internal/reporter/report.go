// Package reporter writes run reports and suggestion artifacts to disk.
package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/RamKarthikeya/ApiTestingG/internal/executor"
	"github.com/RamKarthikeya/ApiTestingG/internal/generator"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// Report is the on-disk shape of one execution run.
type Report struct {
	Timestamp   time.Time          `json:"timestamp"`
	Summary     types.RunSummary   `json:"summary"`
	Results     []types.RunResult  `json:"results"`
	Suggestions []types.Suggestion `json:"suggestions,omitempty"`
}

// Reporter handles artifact generation. It implements
// executor.SuggestionSink.
type Reporter struct {
	outputDir string
}

// NewReporter creates a reporter writing under outputDir.
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// WriteRunReport persists the full outcome of a run and returns the path.
func (r *Reporter) WriteRunReport(out executor.RunOutput) (string, error) {
	report := Report{
		Timestamp:   time.Now(),
		Summary:     out.Summary,
		Results:     out.Results,
		Suggestions: out.Suggestions,
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("report_%s.json", report.Timestamp.Format("20060102_150405")))
	return path, r.writeJSON(path, report)
}

// WriteBattery persists a generated test battery and returns the path.
func (r *Reporter) WriteBattery(result generator.Result) (string, error) {
	path := filepath.Join(r.outputDir, fmt.Sprintf("battery_%s.json", time.Now().Format("20060102_150405")))
	return path, r.writeJSON(path, result)
}

// WriteSuggestions persists expectation-update suggestions. The uuid suffix
// keeps artifacts from concurrent runs from clobbering each other.
func (r *Reporter) WriteSuggestions(suggestions []types.Suggestion) error {
	name := fmt.Sprintf("suggestions_%s_%s.json",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8])
	return r.writeJSON(filepath.Join(r.outputDir, name), suggestions)
}

func (r *Reporter) writeJSON(path string, v any) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
