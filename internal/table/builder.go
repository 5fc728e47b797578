// Package table projects snapshot records of one device into a
// time-indexed table.
package table

import (
	"github.com/sensorlog/sensorview/internal/models"
)

// Records is the read-only record iteration the builder needs.
// *store.RecordSet satisfies it.
type Records interface {
	Each(fn func(models.Record))
}

// Build returns a new table with one row per record of device and one column
// per requested parameter, sorted by timestamp.
//
// Readings that parse as a float become numeric cells, other readings keep
// their text. A parameter absent from a record leaves a missing cell; the row
// is kept. A record whose timestamp cannot be parsed fails the whole build
// with a *models.DateParseError.
func Build(records Records, device string, params []string) (*models.Table, error) {
	columns := dedupe(params)
	t := models.NewTable(columns...)

	var err error
	records.Each(func(rec models.Record) {
		if err != nil || rec.DeviceIdentity() != device {
			return
		}

		ts, perr := rec.Time()
		if perr != nil {
			err = perr
			return
		}

		row := make([]models.Value, len(columns))
		for j, param := range columns {
			raw, ok := rec.Data[param]
			if !ok {
				row[j] = models.Null
				continue
			}
			row[j] = models.Coerce(raw)
		}
		t.AppendRow(ts, row)
	})
	if err != nil {
		return nil, err
	}

	t.SortByIndex()
	return t, nil
}

func dedupe(params []string) []string {
	seen := make(map[string]struct{}, len(params))
	out := make([]string, 0, len(params))
	for _, p := range params {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
