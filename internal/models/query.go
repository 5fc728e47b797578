package models

import (
	"fmt"
	"strings"
	"time"
)

// DateRange bounds records by day. Both bounds are inclusive and optional.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange parses user supplied bounds. An empty string is an absent
// bound. Only the YYYY-MM-DD prefix of a bound is used, any time of day is
// discarded.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = parseBound("start", start); err != nil {
		return DateRange{}, err
	}
	if r.End, err = parseBound("end", end); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func parseBound(name, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) < len(dateLayout) {
		return nil, &DateParseError{Subject: name, Input: s, Err: errShortDate}
	}
	day, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return nil, &DateParseError{Subject: name, Input: s, Err: err}
	}
	return &day, nil
}

// Unbounded reports whether neither bound is set.
func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether a day falls within the range.
func (r DateRange) Contains(day time.Time) bool {
	if r.Start != nil && day.Before(*r.Start) {
		return false
	}
	if r.End != nil && day.After(*r.End) {
		return false
	}
	return true
}

func (r DateRange) String() string {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(dateLayout)
	}
	return fmt.Sprintf("[%s,%s]", format(r.Start), format(r.End))
}

// AggregationMode selects how a table is resampled.
type AggregationMode string

const (
	ModeRaw         AggregationMode = "raw"
	ModeHourly      AggregationMode = "1h"
	ModeThreeHourly AggregationMode = "3h"
	ModeDailyMean   AggregationMode = "1d"
	ModeDailyMinMax AggregationMode = "1d-minmax"
)

var modeAliases = map[string]AggregationMode{
	"":                                   ModeRaw,
	"raw":                                ModeRaw,
	"Data as is":                         ModeRaw,
	"1h":                                 ModeHourly,
	"Average per hour":                   ModeHourly,
	"3h":                                 ModeThreeHourly,
	"Average per three hours":            ModeThreeHourly,
	"1d":                                 ModeDailyMean,
	"Average per day":                    ModeDailyMean,
	"1d-minmax":                          ModeDailyMinMax,
	"Minimum and maximum values per day": ModeDailyMinMax,
}

// ParseAggregationMode accepts the canonical mode names and the labels the
// dashboard shows for them. An empty string means raw.
func ParseAggregationMode(s string) (AggregationMode, error) {
	if m, ok := modeAliases[strings.TrimSpace(s)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMode, s)
}

// Window returns the bucket width, zero for raw.
func (m AggregationMode) Window() time.Duration {
	switch m {
	case ModeHourly:
		return time.Hour
	case ModeThreeHourly:
		return 3 * time.Hour
	case ModeDailyMean, ModeDailyMinMax:
		return 24 * time.Hour
	}
	return 0
}

// Metric selects the comfort view.
type Metric string

const (
	MetricEffectiveTemp Metric = "effective_temp"
	MetricFeeling       Metric = "feeling"
)

var metricAliases = map[string]Metric{
	"":                      MetricEffectiveTemp,
	"effective_temp":        MetricEffectiveTemp,
	"Effective temperature": MetricEffectiveTemp,
	"feeling":               MetricFeeling,
	"Feeling":               MetricFeeling,
}

// ParseMetric accepts canonical metric names and the dashboard labels.
func ParseMetric(s string) (Metric, error) {
	if m, ok := metricAliases[strings.TrimSpace(s)]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMetric, s)
}
