package reporters

import "github.com/go-bond/algoperf"

type Reporter interface {
	Report(reports []*algoperf.Report) error
}

var (
	_ Reporter = (*IOReporter)(nil)
	_ Reporter = (*CSVReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
)
