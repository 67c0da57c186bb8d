package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/replication"
	"github.com/inference-sim/checkout-sim/sim/stats"
	"github.com/inference-sim/checkout-sim/sim/trace"
)

var (
	heading = color.New(color.Bold)
	warn    = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
)

// PrintSummary writes the end-of-run metrics of res to w. Leftover
// customers, if any, are highlighted.
func PrintSummary(w io.Writer, res *sim.Result) {
	heading.Fprintln(w, "=== Checkout Metrics ===")
	fmt.Fprintf(w, "Seed                 : %d\n", res.Seed)
	fmt.Fprintf(w, "End Time             : %d s\n", res.EndTime)
	fmt.Fprintf(w, "Customers Created    : %d\n", res.CustomersCreated)
	fmt.Fprintf(w, "Customers Departed   : %d\n", res.Departed)
	if left := res.CustomersCreated - res.Departed; left > 0 {
		warn.Fprintf(w, "Still In Shop        : %d\n", left)
	} else {
		good.Fprintln(w, "Still In Shop        : 0")
	}
	printDistribution(w, "Waiting Time (s)", res.Summary.Wait)
	printDistribution(w, "Queue Length", res.Summary.QueueLength)
	fmt.Fprintf(w, "Time-Weighted Queue  : %.2f\n", res.Summary.TimeWeightedQueue)
}

// PrintStudy writes the cross-replication summary of a study to w.
func PrintStudy(w io.Writer, study *replication.Study) {
	agg := study.Summary()
	heading.Fprintf(w, "=== %d Replications (seeds %d..%d) ===\n",
		agg.Replications, study.BaseSeed, study.BaseSeed+int64(agg.Replications)-1)
	printDistribution(w, "Customers per Run", agg.Customers)
	printDistribution(w, "Mean Wait (s)", agg.MeanWait)
	printDistribution(w, "Max Wait (s)", agg.MaxWait)
	printDistribution(w, "Peak Queue Length", agg.MaxQueueLength)
	printDistribution(w, "Time-Weighted Queue", agg.TimeWeightedQueueMean)
}

func printDistribution(w io.Writer, label string, d stats.Distribution) {
	if d.Count == 0 {
		fmt.Fprintf(w, "%-21s: no samples\n", label)
		return
	}
	fmt.Fprintf(w, "%-21s: mean %.2f  p50 %.0f  p95 %.0f  p99 %.0f  min %.0f  max %.0f  (n=%d)\n",
		label, d.Mean, d.P50, d.P95, d.P99, d.Min, d.Max, d.Count)
}

// PrintTrace writes the lifecycle trace summary to w.
func PrintTrace(w io.Writer, ts *trace.TraceSummary) {
	heading.Fprintln(w, "=== Lifecycle Trace ===")
	fmt.Fprintf(w, "Arrivals             : %d (%d served at once, %d queued)\n",
		ts.TotalArrivals, ts.ImmediateCount, ts.QueuedCount)
	fmt.Fprintf(w, "Grants               : %d\n", ts.TotalGrants)
	fmt.Fprintf(w, "Mean / Max Wait      : %.2f s / %d s\n", ts.MeanWait, ts.MaxWait)
	fmt.Fprintf(w, "Peak Busy Counters   : %d\n", ts.PeakBusy)

	depths := make([]int, 0, len(ts.AheadDistribution))
	for d := range ts.AheadDistribution {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	for _, d := range depths {
		fmt.Fprintf(w, "  %3d ahead on arrival: %d\n", d, ts.AheadDistribution[d])
	}
}
