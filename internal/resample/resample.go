// Package resample aggregates time-indexed tables into fixed-width buckets.
//
// Buckets are aligned to midnight in each timestamp's own location and
// labelled with the instant at which the window ends. Only non-empty buckets
// are emitted.
//
//   - Mean modes (1h, 3h, 1d) average the numeric cells of every column.
//     Text and missing cells are ignored; a column with no numeric cell in a
//     bucket yields a missing cell.
//   - The daily min/max mode replaces every column c with c_min and c_max.
//     Cells are ordered numbers before text, numbers numerically and text
//     lexically. Missing cells are ignored.
package resample

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sensorlog/sensorview/internal/models"
)

// Closed selects which edge of a window belongs to it.
type Closed int

const (
	// ClosedRight puts a timestamp on a boundary into the window ending there.
	ClosedRight Closed = iota
	// ClosedLeft puts a timestamp on a boundary into the window starting there.
	ClosedLeft
)

// ParseClosed reads "right" or "left". Empty means right.
func ParseClosed(s string) (Closed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return ClosedRight, nil
	case "left":
		return ClosedLeft, nil
	}
	return ClosedRight, fmt.Errorf("invalid window closing side: %s", s)
}

// Resampler aggregates tables. It holds no state besides its options and is
// safe for concurrent use.
type Resampler struct {
	closed Closed
}

func New(closed Closed) *Resampler {
	return &Resampler{closed: closed}
}

// Resample aggregates t with right-closed windows.
func Resample(t *models.Table, mode models.AggregationMode) (*models.Table, error) {
	return New(ClosedRight).Resample(t, mode)
}

// Resample aggregates t according to mode. Raw returns t itself; every
// other mode returns a new table and leaves t untouched.
func (r *Resampler) Resample(t *models.Table, mode models.AggregationMode) (*models.Table, error) {
	switch mode {
	case models.ModeRaw:
		return t, nil
	case models.ModeHourly, models.ModeThreeHourly, models.ModeDailyMean:
		return r.aggregate(t, mode.Window(), meanColumns, mean), nil
	case models.ModeDailyMinMax:
		return r.aggregate(t, mode.Window(), minMaxColumns, minMax), nil
	}
	return nil, fmt.Errorf("%w: %s", models.ErrInvalidMode, mode)
}

// Label returns the end of the window containing ts. Windows are counted
// from midnight of ts's day in ts's location.
func (r *Resampler) Label(ts time.Time, window time.Duration) time.Time {
	y, m, d := ts.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
	start := midnight.Add(ts.Sub(midnight).Truncate(window))
	if r.closed == ClosedRight && start.Equal(ts) {
		return start
	}
	return start.Add(window)
}

type bucket struct {
	label time.Time
	rows  [][]models.Value
}

type aggregator func(cells []models.Value) []models.Value

func (r *Resampler) aggregate(
	t *models.Table,
	window time.Duration,
	columns func([]string) []string,
	agg aggregator,
) *models.Table {
	buckets := make(map[int64]*bucket)
	for i, ts := range t.Index {
		label := r.Label(ts, window)
		key := label.UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: label}
			buckets[key] = b
		}
		b.rows = append(b.rows, t.Rows[i])
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := models.NewTable(columns(t.Columns)...)
	cells := make([]models.Value, 0)
	for _, k := range keys {
		b := buckets[k]
		row := make([]models.Value, 0, len(out.Columns))
		for j := range t.Columns {
			cells = cells[:0]
			for _, src := range b.rows {
				cells = append(cells, src[j])
			}
			row = append(row, agg(cells)...)
		}
		out.AppendRow(b.label, row)
	}
	return out
}

func meanColumns(cols []string) []string {
	return cols
}

func minMaxColumns(cols []string) []string {
	out := make([]string, 0, 2*len(cols))
	for _, c := range cols {
		out = append(out, models.MinColumn(c), models.MaxColumn(c))
	}
	return out
}

func mean(cells []models.Value) []models.Value {
	var sum float64
	var n int
	for _, c := range cells {
		if f, ok := c.Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return []models.Value{models.Null}
	}
	return []models.Value{models.Num(sum / float64(n))}
}

func minMax(cells []models.Value) []models.Value {
	lo, hi := models.Null, models.Null
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		if lo.IsMissing() || models.Compare(c, lo) < 0 {
			lo = c
		}
		if hi.IsMissing() || models.Compare(c, hi) > 0 {
			hi = c
		}
	}
	return []models.Value{lo, hi}
}
