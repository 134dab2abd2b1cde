package algoperf

// SizePoint is the mean trial time for one input size.
type SizePoint struct {
	N      int     `json:"n" cbor:"1"`
	TimeMs float64 `json:"time" cbor:"2"`
}

// Report is the result of benchmarking one algorithm over the size sweep.
// Points follow the configured sweep order.
type Report struct {
	AlgorithmID string      `json:"algorithm" cbor:"1"`
	Points      []SizePoint `json:"results" cbor:"2"`
}
