package review

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

// FindingsCSVHeader matches the unified findings table column set.
var FindingsCSVHeader = []string{
	"Source", "Rule", "Type", "Message", "Line", "Column", "File", "Severity/Level",
}

// FindingsCSV renders the flattened findings as CSV with the unified header.
func FindingsCSV(findings []analyzer.Finding) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(FindingsCSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range findings {
		row := []string{
			f.Source,
			f.Rule,
			f.Category,
			f.Message,
			intCell(f.Line),
			intCell(f.Column),
			f.File,
			f.Severity,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// intCell renders zero positions as empty cells, matching the table view.
func intCell(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
