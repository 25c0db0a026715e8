package waterpoint

// Statistic holds the accumulated counts for one community.
// Invariant: 0 <= Broken <= Total.
type Statistic struct {
	Name   string
	Total  int
	Broken int
}

// Functional returns the number of working water points.
func (s Statistic) Functional() int {
	return s.Total - s.Broken
}

// BrokenPercentage returns Broken*100/Total truncated toward zero,
// or 0 when nothing is broken.
func (s Statistic) BrokenPercentage() int {
	if s.Broken <= 0 || s.Total <= 0 {
		return 0
	}
	return s.Broken * 100 / s.Total
}
