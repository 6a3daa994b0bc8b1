package outwriter

import (
	"encoding/json"
	"os"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
)

// reportPath resolves the destination of the JSON report.
func reportPath(path string) string {
	if path == "" {
		return schema.DefaultReportPath
	}
	return path
}

// WriteReport persists stats as a JSON document at path.
// An empty path means the default report location.
func WriteReport(stats schema.Stats, path string) error {
	path = reportPath(path)

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return &contract.SerializationError{Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &contract.WriteError{Path: path, Err: err}
	}
	return nil
}
