package reporters

import (
	"github.com/dustin/go-humanize"
	"github.com/go-bond/algoperf"
)

const timePrecision = 4

func formatN(n int) string {
	return humanize.Comma(int64(n))
}

func formatTime(ms float64) string {
	return humanize.CommafWithDigits(ms, timePrecision) + " ms"
}

func findMaxLength(reports []*algoperf.Report) (nameLen int, nLen int, timeLen int) {
	nameLen, nLen, timeLen = len(headerAlgorithm), len(headerN), len(headerTime)
	for _, report := range reports {
		nameLen = max(nameLen, len(report.AlgorithmID))
		for _, p := range report.Points {
			nLen = max(nLen, len(formatN(p.N)))
			timeLen = max(timeLen, len(formatTime(p.TimeMs)))
		}
	}
	return
}
