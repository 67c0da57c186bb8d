package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plotter renders a Series somewhere.
type Plotter interface {
	Name() string
	Plot(s Series) error
}

// NewPlotter picks the best available backend: PNG files in dir when dir is
// set and writable, otherwise the text chart written to fallback.
func NewPlotter(dir string, fallback io.Writer) Plotter {
	if dir == "" {
		return NewASCIIPlotter(fallback)
	}
	if err := checkWritable(dir); err != nil {
		logrus.Warnf("Cannot write plots to %s (%v), falling back to text charts", dir, err)
		return NewASCIIPlotter(fallback)
	}
	return &PNGPlotter{Dir: dir, Width: 8 * vg.Inch, Height: 4 * vg.Inch}
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// PNGPlotter draws line charts with gonum/plot, one file per series.
type PNGPlotter struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// Name implements Plotter.
func (p *PNGPlotter) Name() string { return "png" }

// Path returns the file a series is written to.
func (p *PNGPlotter) Path(s Series) string {
	return filepath.Join(p.Dir, s.Name+".png")
}

// Plot implements Plotter by saving s as <Dir>/<s.Name>.png.
func (p *PNGPlotter) Plot(s Series) error {
	if len(s.Samples) == 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrNoData)
	}
	pl := plot.New()
	pl.Title.Text = s.Title
	pl.X.Label.Text = s.XLabel
	pl.Y.Label.Text = s.YLabel

	pts := make(plotter.XYs, len(s.Samples))
	for i, sample := range s.Samples {
		pts[i].X = float64(sample.Time)
		pts[i].Y = float64(sample.Value)
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	pl.Add(line)

	path := p.Path(s)
	if err := pl.Save(p.Width, p.Height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	logrus.Infof("Wrote %s", path)
	return nil
}

// ASCIIPlotter prints a column chart: time is bucketed into Width columns
// and each column shows the largest value seen in its bucket.
type ASCIIPlotter struct {
	W      io.Writer
	Width  int
	Height int
}

// NewASCIIPlotter returns a 60x12 text plotter writing to w.
func NewASCIIPlotter(w io.Writer) *ASCIIPlotter {
	return &ASCIIPlotter{W: w, Width: 60, Height: 12}
}

// Name implements Plotter.
func (a *ASCIIPlotter) Name() string { return "ascii" }

// Plot implements Plotter by writing the rendered chart to W.
func (a *ASCIIPlotter) Plot(s Series) error {
	if len(s.Samples) == 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrNoData)
	}
	_, err := io.WriteString(a.W, a.Render(s))
	return err
}

// Render returns the chart for s as text.
func (a *ASCIIPlotter) Render(s Series) string {
	width, height := max(a.Width, 1), max(a.Height, 1)

	start, end := s.Samples[0].Time, s.Samples[len(s.Samples)-1].Time
	span := end - start + 1
	cols := make([]int64, width)
	var peak int64
	for _, sample := range s.Samples {
		c := int((sample.Time - start) * int64(width) / span)
		cols[c] = max(cols[c], sample.Value)
		peak = max(peak, sample.Value)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(s.Title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", width+10))
	sb.WriteString("\n")
	for row := height; row >= 1; row-- {
		// a row is lit when the column reaches this fraction of the peak
		threshold := float64(peak) * float64(row) / float64(height)
		fmt.Fprintf(&sb, "%8.0f |", threshold)
		for _, v := range cols {
			if peak > 0 && float64(v) >= threshold {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%8s +%s\n", "", strings.Repeat("-", width))
	fmt.Fprintf(&sb, "%8s  %-*d%d\n", "", width-len(fmt.Sprint(end)), start, end)
	fmt.Fprintf(&sb, "%8s  %s / %s\n", "", s.XLabel, s.YLabel)
	return sb.String()
}
