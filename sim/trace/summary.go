package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalArrivals     int
	ImmediateCount    int
	QueuedCount       int
	TotalGrants       int
	MeanWait          float64
	MaxWait           int64
	PeakBusy          int
	AheadDistribution map[int]int // queue depth seen on arrival → count of customers
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		AheadDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalArrivals = len(st.Arrivals)
	for _, a := range st.Arrivals {
		if a.Queued {
			summary.QueuedCount++
		} else {
			summary.ImmediateCount++
		}
		summary.AheadDistribution[a.Ahead]++
	}

	summary.TotalGrants = len(st.Grants)
	if len(st.Grants) > 0 {
		var totalWait int64
		for _, g := range st.Grants {
			totalWait += g.Wait
			summary.MaxWait = max(summary.MaxWait, g.Wait)
			summary.PeakBusy = max(summary.PeakBusy, g.Busy)
		}
		summary.MeanWait = float64(totalWait) / float64(len(st.Grants))
	}

	return summary
}
