package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want Value
	}{
		{"nil", nil, Null},
		{"float", 21.5, Num(21.5)},
		{"nan", math.NaN(), Null},
		{"int", 3, Num(3)},
		{"json number", json.Number("42"), Num(42)},
		{"numeric string", " 19.25 ", Num(19.25)},
		{"text", "open", Str("open")},
		{"overflowing string", "1e400", Num(math.Inf(1))},
		{"overflowing negative number", json.Number("-1e400"), Num(math.Inf(-1))},
		{"bool", true, Num(1)},
		{"object", map[string]interface{}{"a": 1.0}, Str(`{"a":1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.raw))
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Null, Num(-100)))
	assert.Equal(t, -1, Compare(Num(100), Str("a")))
	assert.Equal(t, -1, Compare(Num(2), Num(10)))
	assert.Equal(t, 1, Compare(Str("b"), Str("a")))
	assert.Equal(t, 0, Compare(Str("a"), Str("a")))
	assert.Equal(t, 0, Compare(Null, Null))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 7, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-03-05T07:30:00Z",
		"2024-03-05T07:30:00",
		"2024-03-05 07:30:00",
		"2024-03-05T07:30",
		"2024-03-05T09:30:00+02:00",
	} {
		ts, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(ts), s)
	}

	_, err := ParseTimestamp("05/03/2024")
	assert.Error(t, err)
}

func TestRecordDate(t *testing.T) {
	day, err := Record{ID: "r1", Timestamp: "2024-03-05T23:59:59"}.Date()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)

	_, err = Record{ID: "r2", Timestamp: "2024-3-5"}.Date()
	var dpe *DateParseError
	require.True(t, errors.As(err, &dpe))
	assert.Equal(t, "r2", dpe.Subject)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.Unbounded())
	assert.Equal(t, "[,]", r.String())

	r, err = ParseDateRange("2024-01-02T10:00:00", "2024-01-03")
	require.NoError(t, err)
	assert.False(t, r.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))

	// Start after end is an empty range, not an error
	r, err = ParseDateRange("2024-01-05", "2024-01-01")
	require.NoError(t, err)
	assert.False(t, r.Contains(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))

	_, err = ParseDateRange("2024-01-01", "soon")
	var dpe *DateParseError
	require.True(t, errors.As(err, &dpe))
	assert.Equal(t, "end", dpe.Subject)
}

func TestParseAggregationMode(t *testing.T) {
	tests := []struct {
		in     string
		want   AggregationMode
		window time.Duration
	}{
		{"", ModeRaw, 0},
		{"Data as is", ModeRaw, 0},
		{"1h", ModeHourly, time.Hour},
		{"Average per three hours", ModeThreeHourly, 3 * time.Hour},
		{"1d", ModeDailyMean, 24 * time.Hour},
		{"Minimum and maximum values per day", ModeDailyMinMax, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAggregationMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.window, got.Window())
		})
	}

	_, err := ParseAggregationMode("2h")
	assert.ErrorIs(t, err, ErrInvalidMode)
	_, err = ParseMetric("humidex")
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestSnapshotUnmarshal(t *testing.T) {
	doc := `{
		"a1": {"uName": "Kitchen", "serial": "0042", "Date": "2024-01-01T00:00:00", "data": {"in_temp": 21, "door": "open"}},
		"a2": {"uName": "Kitchen", "serial": "0042", "Date": "2024-01-01T01:00:00", "data": {}}
	}`
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	require.Len(t, s, 2)
	assert.Equal(t, "a1", s["a1"].ID)
	assert.Equal(t, "Kitchen 0042", s["a1"].DeviceIdentity())
	assert.Equal(t, json.Number("21"), s["a1"].Data["in_temp"])

	assert.Error(t, json.Unmarshal([]byte(`null`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"x": {"uName": 5}}`), &s))
}

func TestTableColumns(t *testing.T) {
	tbl := NewTable("a")
	tbl.AppendRow(time.Unix(20, 0), []Value{Num(2)})
	tbl.AppendRow(time.Unix(10, 0), []Value{Num(1)})

	clone := tbl.Clone()
	tbl.SetColumn("b", []Value{Str("x"), Str("y")})
	tbl.SortByIndex()

	assert.Equal(t, []string{"a", "b"}, tbl.Columns)
	col, ok := tbl.Column("b")
	require.True(t, ok)
	assert.Equal(t, []Value{Str("y"), Str("x")}, col)
	assert.Equal(t, []string{"a"}, clone.Columns)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
	assert.Equal(t, "a_min", MinColumn("a"))
	assert.Equal(t, "a_max", MaxColumn("a"))
}
