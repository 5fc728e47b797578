// Package comfort derives effective temperature and thermal feeling from
// paired temperature and humidity columns.
//
// A sensor s is read from the columns s_temp and s_humidity. The effective
// temperature is
//
//	effective = temp - 0.4 * (temp - 10) * (1 - humidity/100)
//
// and the feeling is looked up in an ordered table of half-open intervals
// (lower exclusive, upper inclusive), first match wins. Values at or below
// -30 match no interval and are reported as unclassified without a level.
package comfort

import (
	"fmt"
	"math"

	"github.com/sensorlog/sensorview/internal/models"
)

const (
	TempSuffix          = "_temp"
	HumiditySuffix      = "_humidity"
	EffectiveTempSuffix = "_effective_temp"
	FeelingSuffix       = "_feeling"
	LevelSuffix         = "_lvl_feeling"

	// Unclassified labels effective temperatures outside every band.
	Unclassified = "unclassified"
)

// Band is one row of the feeling table.
type Band struct {
	Lower float64 // exclusive
	Upper float64 // inclusive
	Label string
	Level int
}

// Contains reports whether v falls in (Lower, Upper].
func (b Band) Contains(v float64) bool {
	return v > b.Lower && v <= b.Upper
}

var bandLimits = []struct {
	lower, upper float64
	level        int
}{
	{30, math.Inf(1), 9},
	{24, 30, 8},
	{18, 24, 7},
	{12, 18, 6},
	{6, 12, 5},
	{0, 6, 4},
	{-12, 0, 3},
	{-24, -12, 2},
	{-30, -24, 1},
}

var locales = map[string][]string{
	"en": {
		"Very hot", "Hot", "Warm", "Mildly warm", "Cool",
		"Mild", "Cold", "Very cold", "Extremely cold",
	},
	"ru": {
		"Очень жарко", "Жарко", "Тепло", "Умеренно тепло", "Прохладно",
		"Умеренно", "Холодно", "Очень холодно", "Крайне холодно",
	},
}

// Deriver adds comfort columns to tables. It is immutable and safe for
// concurrent use.
type Deriver struct {
	bands []Band
}

// NewDeriver returns a deriver labelling feelings in the given locale
// ("en" or "ru"). An empty locale means "en".
func NewDeriver(locale string) (*Deriver, error) {
	if locale == "" {
		locale = "en"
	}
	labels, ok := locales[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale: %s", locale)
	}

	bands := make([]Band, len(bandLimits))
	for i, l := range bandLimits {
		bands[i] = Band{Lower: l.lower, Upper: l.upper, Label: labels[i], Level: l.level}
	}
	return &Deriver{bands: bands}, nil
}

var defaultDeriver, _ = NewDeriver("en")

// Bands returns a copy of the feeling table in evaluation order.
func (d *Deriver) Bands() []Band {
	out := make([]Band, len(d.bands))
	copy(out, d.bands)
	return out
}

// EffectiveTemperature computes the effective temperature of one reading.
func EffectiveTemperature(temp, humidity float64) float64 {
	return temp - 0.4*(temp-10)*(1-humidity/100)
}

// Classify returns the band containing an effective temperature.
func (d *Deriver) Classify(effective float64) (Band, bool) {
	for _, b := range d.bands {
		if b.Contains(effective) {
			return b, true
		}
	}
	return Band{}, false
}

// ComputeEffectiveTemperature adds {s}_effective_temp for each sensor using
// the English deriver.
func ComputeEffectiveTemperature(t *models.Table, sensors []string) (*models.Table, error) {
	return defaultDeriver.EffectiveTemperature(t, sensors)
}

// ComputeFeeling adds {s}_feeling and {s}_lvl_feeling for each sensor using
// the English labels.
func ComputeFeeling(t *models.Table, sensors []string) (*models.Table, error) {
	return defaultDeriver.Feeling(t, sensors)
}

// EffectiveTemperature returns a copy of t with a {s}_effective_temp column
// per sensor. A row missing either input gets a missing result; a text input
// fails with *models.NonNumericError.
func (d *Deriver) EffectiveTemperature(t *models.Table, sensors []string) (*models.Table, error) {
	out := t.Clone()
	for _, sensor := range sensors {
		temps, err := sourceColumn(out, sensor, sensor+TempSuffix)
		if err != nil {
			return nil, err
		}
		hums, err := sourceColumn(out, sensor, sensor+HumiditySuffix)
		if err != nil {
			return nil, err
		}

		values := make([]models.Value, len(temps))
		for i := range temps {
			temp, ok, err := number(sensor+TempSuffix, i, temps[i])
			if err != nil {
				return nil, err
			}
			hum, ok2, err := number(sensor+HumiditySuffix, i, hums[i])
			if err != nil {
				return nil, err
			}
			if !ok || !ok2 {
				values[i] = models.Null
				continue
			}
			values[i] = models.Num(EffectiveTemperature(temp, hum))
		}
		out.SetColumn(sensor+EffectiveTempSuffix, values)
	}
	return out, nil
}

// Feeling returns a copy of t with {s}_feeling and {s}_lvl_feeling columns
// per sensor, read from {s}_effective_temp.
func (d *Deriver) Feeling(t *models.Table, sensors []string) (*models.Table, error) {
	out := t.Clone()
	for _, sensor := range sensors {
		column := sensor + EffectiveTempSuffix
		effs, err := sourceColumn(out, sensor, column)
		if err != nil {
			return nil, err
		}

		labels := make([]models.Value, len(effs))
		levels := make([]models.Value, len(effs))
		for i := range effs {
			eff, ok, err := number(column, i, effs[i])
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			band, found := d.Classify(eff)
			if !found {
				labels[i] = models.Str(Unclassified)
				continue
			}
			labels[i] = models.Str(band.Label)
			levels[i] = models.Num(float64(band.Level))
		}
		out.SetColumn(sensor+FeelingSuffix, labels)
		out.SetColumn(sensor+LevelSuffix, levels)
	}
	return out, nil
}

// SourceColumns lists the input columns the derivation reads for sensors.
func SourceColumns(sensors []string) []string {
	out := make([]string, 0, 2*len(sensors))
	for _, s := range sensors {
		out = append(out, s+TempSuffix, s+HumiditySuffix)
	}
	return out
}

func sourceColumn(t *models.Table, sensor, column string) ([]models.Value, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, &models.MissingColumnError{Sensor: sensor, Column: column}
	}
	return values, nil
}

func number(column string, row int, v models.Value) (float64, bool, error) {
	if s, isText := v.Text(); isText {
		return 0, false, &models.NonNumericError{Column: column, Row: row, Text: s}
	}
	f, ok := v.Float()
	return f, ok, nil
}
