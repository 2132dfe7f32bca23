// Package report collects the per-step ledger totals sampled by the
// simulation driver and exposes them for printing and serving. Ledger math is
// int64 micro-units throughout; this package owns the conversion to display
// units at the reporting boundary.
package report

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// Row is one sampled step: the total supply of every ledger, keyed by column
// symbol.
type Row struct {
	Step   int
	Totals map[string]int64
}

// Recorder is an append-only record of sampled ledger totals, one row per
// simulation step. It implements the driver's observer contract.
type Recorder struct {
	mu      sync.RWMutex
	columns []string
	rows    []Row
}

// NewRecorder builds a recorder with a fixed column order, typically the bank
// symbols followed by the central ledger symbol.
func NewRecorder(columns []string) *Recorder {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Recorder{columns: cols}
}

// OnStep appends one row. The totals map is copied; callers may reuse it.
func (r *Recorder) OnStep(step int, totals map[string]int64) {
	row := Row{Step: step, Totals: make(map[string]int64, len(totals))}
	for symbol, v := range totals {
		row.Totals[symbol] = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
}

// Columns returns the column order.
func (r *Recorder) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Series returns a copy of every recorded row in step order.
func (r *Recorder) Series() []Row {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Len returns the number of recorded rows.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// Display converts a micro-unit amount to display units by shifting six
// decimal places. Amounts at or below zero display as zero.
func Display(v int64) decimal.Decimal {
	if v <= 0 {
		return decimal.Zero
	}
	return decimal.New(v, -6)
}

// WriteTable renders the recorded series as an aligned text table in display
// units.
func (r *Recorder) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "STEP")
	for _, symbol := range r.columns {
		fmt.Fprintf(tw, "\t%s", symbol)
	}
	fmt.Fprintln(tw)

	for _, row := range r.Series() {
		fmt.Fprintf(tw, "%d", row.Step)
		for _, symbol := range r.columns {
			fmt.Fprintf(tw, "\t%s", Display(row.Totals[symbol]))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
