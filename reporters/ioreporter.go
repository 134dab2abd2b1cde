package reporters

import (
	"fmt"
	"io"

	"github.com/go-bond/algoperf"
)

const (
	headerAlgorithm = "ALGORITHM"
	headerN         = "N"
	headerTime      = "AVG TIME"
)

// IOReporter writes an aligned text table, one line per size point.
type IOReporter struct {
	w io.Writer
}

func NewIOReporter(writer io.Writer) *IOReporter {
	return &IOReporter{w: writer}
}

func (r *IOReporter) Report(reports []*algoperf.Report) error {
	nameLen, nLen, timeLen := findMaxLength(reports)
	format := fmt.Sprintf("%%-%ds %%%ds %%%ds\n", nameLen, nLen, timeLen)

	_, err := fmt.Fprintf(r.w, format, headerAlgorithm, headerN, headerTime)
	if err != nil {
		return err
	}

	for _, report := range reports {
		for _, p := range report.Points {
			_, err = fmt.Fprintf(r.w, format, report.AlgorithmID, formatN(p.N), formatTime(p.TimeMs))
			if err != nil {
				return err
			}
		}
	}

	return nil
}
