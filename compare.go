package algoperf

// Comparison is the change of one size point between two reports.
type Comparison struct {
	N          int
	PrevTimeMs float64
	CurrTimeMs float64
	// Diff is the percentage change; negative means faster.
	Diff float64
}

// Compare matches points by N. Sizes present in only one report are skipped.
func Compare(prev, curr *Report) []Comparison {
	prevByN := make(map[int]float64, len(prev.Points))
	for _, p := range prev.Points {
		prevByN[p.N] = p.TimeMs
	}

	var comparisons []Comparison
	for _, c := range curr.Points {
		p, ok := prevByN[c.N]
		if !ok {
			continue
		}

		comp := Comparison{N: c.N, PrevTimeMs: p, CurrTimeMs: c.TimeMs}
		if p > 0 {
			comp.Diff = (c.TimeMs - p) / p * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

// GrowthFactors returns, for each consecutive pair of points, the ratio of
// observed times next to the ratio of input sizes. A quadratic algorithm
// shows time ratios near the square of the size ratio.
func GrowthFactors(r *Report) []Growth {
	if len(r.Points) < 2 {
		return nil
	}

	out := make([]Growth, 0, len(r.Points)-1)
	for i := 1; i < len(r.Points); i++ {
		prev, curr := r.Points[i-1], r.Points[i]
		g := Growth{
			FromN:     prev.N,
			ToN:       curr.N,
			SizeRatio: float64(curr.N) / float64(prev.N),
		}
		if prev.TimeMs > 0 {
			g.TimeRatio = curr.TimeMs / prev.TimeMs
		}
		out = append(out, g)
	}
	return out
}

type Growth struct {
	FromN     int
	ToN       int
	SizeRatio float64
	// TimeRatio is zero when the earlier point measured zero.
	TimeRatio float64
}
