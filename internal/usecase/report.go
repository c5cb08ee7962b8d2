package usecase

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/naka-gawa/repo-metrics/internal/domain"
)

// AggregateFilename is the report path for multi-repository runs.
const AggregateFilename = "output.json"

// DefaultOutputPath derives the report path from the input: a
// single-repository run is named after the repository, anything else
// uses the aggregate filename.
func DefaultOutputPath(urls []string) string {
	if len(urls) == 1 {
		if ref, err := domain.ParseRepoRef(urls[0]); err == nil {
			return ref.Owner + "-" + ref.Name + ".json"
		}
	}
	return AggregateFilename
}

// WriteReport serializes the report as pretty-printed JSON in one
// write. The path "-" selects the console sink instead of a file.
func WriteReport(report domain.Report, path string, console io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if path == "-" {
		_, err = fmt.Fprintln(console, string(data))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
