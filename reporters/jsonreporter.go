package reporters

import (
	"encoding/json"
	"io"

	"github.com/go-bond/algoperf"
)

// JSONReporter writes the reports as a JSON array.
type JSONReporter struct {
	w      io.Writer
	indent bool
}

func NewJSONReporter(writer io.Writer, indent bool) *JSONReporter {
	return &JSONReporter{w: writer, indent: indent}
}

func (r *JSONReporter) Report(reports []*algoperf.Report) error {
	enc := json.NewEncoder(r.w)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if reports == nil {
		reports = []*algoperf.Report{}
	}
	return enc.Encode(reports)
}
