package trace

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	SampledTicks   int
	PrintedRows    int
	SuppressedRows int
	Chunks         int
	CharsDelivered int
	FinalState     string
	FinalTick      int64
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{}
	if rt == nil {
		return summary
	}

	summary.SampledTicks = len(rt.Rows)
	for _, r := range rt.Rows {
		if r.Printed {
			summary.PrintedRows++
		} else {
			summary.SuppressedRows++
		}
	}

	summary.Chunks = len(rt.Deliveries)
	for _, d := range rt.Deliveries {
		summary.CharsDelivered += d.Chars
	}

	summary.FinalState = rt.Outcome.State
	summary.FinalTick = rt.Outcome.Tick

	return summary
}
