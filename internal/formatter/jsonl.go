package formatter

import (
	"encoding/json"
	"io"
)

// JSONLFormatter outputs history rows as JSON Lines format.
// Each incident is a single JSON object on one line.
type JSONLFormatter struct{}

// NewJSONLFormatter creates a new JSONL formatter.
func NewJSONLFormatter() *JSONLFormatter {
	return &JSONLFormatter{}
}

// Format writes each row as a JSON line.
func (jf *JSONLFormatter) Format(w io.Writer, rows []HistoryRow) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false) // Don't escape < > & in URLs

	for _, r := range rows {
		if err := encoder.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
