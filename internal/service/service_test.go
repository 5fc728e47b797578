package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorlog/sensorview/internal/comfort"
	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/resample"
	"github.com/sensorlog/sensorview/internal/store"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	st := store.New(models.Snapshot{
		"1": {DeviceName: "X", Serial: "S1", Timestamp: "2024-01-01T00:00:00", Data: map[string]interface{}{
			"in_temp": "20", "in_humidity": "50", "door": "closed",
		}},
		"2": {DeviceName: "X", Serial: "S1", Timestamp: "2024-01-01T12:00:00", Data: map[string]interface{}{
			"in_temp": 30.0, "in_humidity": 50.0, "door": "open",
		}},
		"3": {DeviceName: "X", Serial: "S1", Timestamp: "2024-01-02T06:00:00", Data: map[string]interface{}{
			"in_temp": 10.0, "in_humidity": 90.0, "out_temp": 1.0, "out_humidity": "broken",
		}},
		"4": {DeviceName: "Y", Serial: "S2", Timestamp: "2024-01-01T00:00:00", Data: map[string]interface{}{
			"co2": 400.0,
		}},
	})
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	return NewService(st, logger, opts...)
}

func day(d, h int) time.Time {
	return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC)
}

func TestListings(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, []string{"X S1", "Y S2"}, svc.ListDeviceIdentities())
	assert.Equal(t, []string{"door", "in_humidity", "in_temp", "out_humidity", "out_temp"}, svc.ListParametersForDevice("X S1"))
	assert.Equal(t, []string{"in", "out"}, svc.ListSensorsWithTempAndHumidity("X S1"))

	assert.Empty(t, svc.ListParametersForDevice(""))
	assert.Empty(t, svc.ListParametersForDevice("nobody"))
	assert.Empty(t, svc.ListSensorsWithTempAndHumidity("Y S2"))
}

func TestQueryTable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     TableQuery
		wantIndex []time.Time
		wantCols  []string
	}{
		{
			name:      "raw with date range",
			query:     TableQuery{Device: "X S1", Parameters: []string{"in_temp", "door"}, Start: "2024-01-01", End: "2024-01-01"},
			wantIndex: []time.Time{day(1, 0), day(1, 12)},
			wantCols:  []string{"in_temp", "door"},
		},
		{
			name:      "daily mean by label",
			query:     TableQuery{Device: "X S1", Parameters: []string{"in_temp"}, Mode: "Average per day"},
			wantIndex: []time.Time{day(1, 0), day(2, 0), day(3, 0)},
			wantCols:  []string{"in_temp"},
		},
		{
			name:      "daily min max",
			query:     TableQuery{Device: "X S1", Parameters: []string{"in_temp"}, Mode: "1d-minmax", Start: "2024-01-02"},
			wantIndex: []time.Time{day(3, 0)},
			wantCols:  []string{"in_temp_min", "in_temp_max"},
		},
		{
			name:     "unknown device",
			query:    TableQuery{Device: "nobody", Parameters: []string{"in_temp"}},
			wantCols: []string{"in_temp"},
		},
		{
			name:     "no parameters",
			query:    TableQuery{Device: "X S1"},
			wantCols: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryTable(ctx, tt.query)
			require.NoError(t, err)
			if tt.wantIndex == nil {
				assert.Equal(t, 0, got.Len())
			} else {
				assert.Equal(t, tt.wantIndex, got.Index)
			}
			assert.Equal(t, tt.wantCols, got.Columns)
		})
	}
}

func TestQueryTableErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.QueryTable(ctx, TableQuery{Device: "X S1", Parameters: []string{"in_temp"}, Mode: "weekly"})
	assert.True(t, errors.Is(err, models.ErrInvalidMode))

	_, err = svc.QueryTable(ctx, TableQuery{Device: "X S1", Parameters: []string{"in_temp"}, Start: "2024-13-01"})
	var dpe *models.DateParseError
	require.True(t, errors.As(err, &dpe))
	assert.Equal(t, "start", dpe.Subject)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.QueryTable(cancelled, TableQuery{Device: "X S1", Parameters: []string{"in_temp"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryComfortRaw(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.QueryComfort(context.Background(), ComfortQuery{
		Device:  "X S1",
		Sensors: []string{"in"},
		End:     "2024-01-01",
		Metric:  "Feeling",
	})
	require.NoError(t, err)

	eff, _ := got.Column("in_effective_temp")
	assert.Equal(t, []models.Value{models.Num(18), models.Num(26)}, eff)
	labels, _ := got.Column("in_feeling")
	assert.Equal(t, []models.Value{models.Str("Mildly warm"), models.Str("Hot")}, labels)
	levels, _ := got.Column("in_lvl_feeling")
	assert.Equal(t, []models.Value{models.Num(6), models.Num(8)}, levels)
}

func TestQueryComfortMeanThenFeeling(t *testing.T) {
	svc := newTestService(t, WithResampler(resample.New(resample.ClosedLeft)))

	got, err := svc.QueryComfort(context.Background(), ComfortQuery{
		Device:  "X S1",
		Sensors: []string{"in"},
		End:     "2024-01-01",
		Mode:    "1d",
		Metric:  "feeling",
	})
	require.NoError(t, err)

	require.Equal(t, 1, got.Len())
	assert.Equal(t, day(2, 0), got.Index[0])
	eff, _ := got.Column("in_effective_temp")
	assert.Equal(t, []models.Value{models.Num(22)}, eff)
	labels, _ := got.Column("in_feeling")
	assert.Equal(t, []models.Value{models.Str("Warm")}, labels)
}

func TestQueryComfortMinMax(t *testing.T) {
	deriver, err := comfort.NewDeriver("ru")
	require.NoError(t, err)
	svc := newTestService(t, WithResampler(resample.New(resample.ClosedLeft)), WithDeriver(deriver))

	got, err := svc.QueryComfort(context.Background(), ComfortQuery{
		Device:  "X S1",
		Sensors: []string{"in"},
		End:     "2024-01-01",
		Mode:    "Minimum and maximum values per day",
		Metric:  "feeling",
	})
	require.NoError(t, err)

	require.Equal(t, 1, got.Len())
	lo, _ := got.Column("in_lvl_feeling_min")
	hi, _ := got.Column("in_lvl_feeling_max")
	assert.Equal(t, []models.Value{models.Num(6)}, lo)
	assert.Equal(t, []models.Value{models.Num(8)}, hi)

	effLo, _ := got.Column("in_effective_temp_min")
	effHi, _ := got.Column("in_effective_temp_max")
	assert.Equal(t, []models.Value{models.Num(18)}, effLo)
	assert.Equal(t, []models.Value{models.Num(26)}, effHi)

	labelLo, _ := got.Column("in_feeling_min")
	assert.Equal(t, []models.Value{models.Str("Жарко")}, labelLo)
}

func TestQueryComfortNonNumeric(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.QueryComfort(context.Background(), ComfortQuery{
		Device:  "X S1",
		Sensors: []string{"out"},
	})
	var nne *models.NonNumericError
	require.True(t, errors.As(err, &nne))
	assert.Equal(t, "out_humidity", nne.Column)
}

func TestQueryComfortEmpty(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.QueryComfort(context.Background(), ComfortQuery{Device: "X S1"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	_, err = svc.QueryComfort(context.Background(), ComfortQuery{Device: "X S1", Sensors: []string{"in"}, Metric: "comfort"})
	assert.ErrorIs(t, err, models.ErrInvalidMetric)
}

func TestQueryTableDailyBucketsFollowRecordOffset(t *testing.T) {
	st := store.New(models.Snapshot{
		"1": {DeviceName: "X", Serial: "S1", Timestamp: "2024-01-01T01:00:00+03:00", Data: map[string]interface{}{"v": 1.0}},
		"2": {DeviceName: "X", Serial: "S1", Timestamp: "2024-01-01T12:00:00+03:00", Data: map[string]interface{}{"v": 5.0}},
	})
	svc := NewService(st, logrus.New())

	got, err := svc.QueryTable(context.Background(), TableQuery{
		Device:     "X S1",
		Parameters: []string{"v"},
		Start:      "2024-01-01",
		End:        "2024-01-01",
		Mode:       "1d-minmax",
	})
	require.NoError(t, err)

	require.Equal(t, 1, got.Len())
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.FixedZone("", 3*60*60))
	assert.True(t, want.Equal(got.Index[0]), "label %s", got.Index[0])
	assert.Equal(t, [][]models.Value{{models.Num(1), models.Num(5)}}, got.Rows)
}
