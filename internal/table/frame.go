package table

import (
	"io"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/sensorlog/sensorview/internal/models"
)

// TimeColumn is the name of the index column in exported frames.
const TimeColumn = "Date"

// ToDataFrame converts a table into a dataframe. The index becomes the first
// column as RFC3339 text. Columns holding only numbers (or missing cells)
// become float series with NaN for missing cells; any column holding text
// becomes a string series.
func ToDataFrame(t *models.Table) dataframe.DataFrame {
	cols := make([]series.Series, 0, len(t.Columns)+1)

	index := make([]string, t.Len())
	for i, ts := range t.Index {
		index[i] = ts.Format(time.RFC3339)
	}
	cols = append(cols, series.New(index, series.String, TimeColumn))

	for j, name := range t.Columns {
		if numericColumn(t, j) {
			values := make([]float64, t.Len())
			for i, row := range t.Rows {
				if f, ok := row[j].Float(); ok {
					values[i] = f
				} else {
					values[i] = math.NaN()
				}
			}
			cols = append(cols, series.New(values, series.Float, name))
			continue
		}

		values := make([]string, t.Len())
		for i, row := range t.Rows {
			values[i] = row[j].String()
		}
		cols = append(cols, series.New(values, series.String, name))
	}

	return dataframe.New(cols...)
}

// WriteCSV writes a table as CSV with a header row.
func WriteCSV(w io.Writer, t *models.Table) error {
	df := ToDataFrame(t)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func numericColumn(t *models.Table, j int) bool {
	for _, row := range t.Rows {
		if row[j].IsText() {
			return false
		}
	}
	return true
}
