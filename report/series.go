// Package report renders the statistics of a checkout run: CSV export,
// line plots and a console summary. It only reads sim.Result and never
// affects a simulation.
package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/stats"
)

// ErrNoData is returned when asked to plot an empty series.
var ErrNoData = errors.New("series has no samples")

// Series is one time series with its chart labels.
type Series struct {
	Name    string // file-safe identifier
	Title   string
	XLabel  string
	YLabel  string
	Samples []stats.Sample
}

// QueueSeries returns the queue-length series of res.
func QueueSeries(res *sim.Result) Series {
	return Series{
		Name:    "queue_length",
		Title:   "Queue length",
		XLabel:  "Simulation time, sec",
		YLabel:  "Current queue length, #",
		Samples: res.QueueLengths,
	}
}

// WaitSeries returns the waiting-time series of res.
func WaitSeries(res *sim.Result) Series {
	return Series{
		Name:    "waiting_time",
		Title:   "Waiting time",
		XLabel:  "Simulation time, sec",
		YLabel:  "Somebody waits..., sec",
		Samples: res.Waits,
	}
}

// WriteCSV writes s as a two-column CSV with a "time,<name>" header.
func WriteCSV(w io.Writer, s Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", s.Name}); err != nil {
		return err
	}
	for _, sample := range s.Samples {
		row := []string{
			strconv.FormatInt(sample.Time, 10),
			strconv.FormatInt(sample.Value, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
