package reporters

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/structs"
	"github.com/go-bond/algoperf"
)

type csvRow struct {
	Algorithm string  `csv:"algorithm"`
	N         int     `csv:"n"`
	TimeMs    float64 `csv:"time_ms"`
}

type CSVReporter struct {
	w io.Writer
}

func NewCSVReporter(writer io.Writer) *CSVReporter {
	return &CSVReporter{w: writer}
}

func (r *CSVReporter) Report(reports []*algoperf.Report) error {
	writer := csv.NewWriter(r.w)

	err := writer.Write(csvHeader())
	if err != nil {
		return err
	}

	for _, report := range reports {
		for _, p := range report.Points {
			err = writer.Write(csvValues(csvRow{Algorithm: report.AlgorithmID, N: p.N, TimeMs: p.TimeMs}))
			if err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvHeader() []string {
	var header []string
	for _, field := range structs.Fields(csvRow{}) {
		header = append(header, field.Tag("csv"))
	}
	return header
}

func csvValues(row csvRow) []string {
	var values []string
	for _, field := range structs.Fields(row) {
		switch v := field.Value().(type) {
		case float64:
			values = append(values, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			values = append(values, fmt.Sprintf("%v", v))
		}
	}
	return values
}
