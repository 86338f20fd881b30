package bench

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Row is one line of a comparison report.
type Row struct {
	Label      string
	Workers    int
	Stats      Stats
	Speedup    float64
	Efficiency float64
	Correct    bool
}

// Report accumulates rows of a parallel-versus-sequential comparison and
// renders them as an aligned text table.
type Report struct {
	title string
	rows  []Row
}

// NewReport creates a report with the given title.
func NewReport(title string) *Report {
	return &Report{title: title}
}

// Add appends a row comparing candidate against baseline on the given
// number of workers.
func (r *Report) Add(label string, workers int, baseline, candidate Stats, correct bool) {
	cmp := Compare(baseline, candidate, workers)
	r.rows = append(r.rows, Row{
		Label:      label,
		Workers:    workers,
		Stats:      candidate,
		Speedup:    cmp.Speedup,
		Efficiency: cmp.Efficiency,
		Correct:    correct,
	})
}

// Render writes the table to w.
func (r *Report) Render(w io.Writer) error {
	if r.title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", r.title, strings.Repeat("-", len(r.title))); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "approach\tworkers\tmean (ms)\tspeedup\tefficiency\tcorrect")
	for _, row := range r.rows {
		verdict := "OK"
		if !row.Correct {
			verdict = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%s\n",
			row.Label,
			row.Workers,
			row.Stats.MeanSeconds()*1000,
			row.Speedup,
			row.Efficiency,
			verdict,
		)
	}
	return tw.Flush()
}

// LogRuns writes the per-run durations of s to w, marking the warmup run.
func LogRuns(w io.Writer, label string, s Stats) {
	fmt.Fprintf(w, "%s:\n", label)
	for i, d := range s.Durations {
		note := ""
		if i == 0 {
			note = " (warmup, excluded from mean)"
		}
		fmt.Fprintf(w, "  run %d: %.6f ms%s\n", i+1, d.Seconds()*1000, note)
	}
	fmt.Fprintf(w, "  mean: %.6f ms\n", s.MeanSeconds()*1000)
}
