package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorlog/sensorview/internal/models"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testSnapshot))
	}))
	defer srv.Close()

	st, err := Load(context.Background(), HTTPSource{URL: srv.URL}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Len())
	assert.Equal(t, []string{"Air 7", "Meteo 01"}, st.ListDeviceIdentities())
}

func TestHTTPSourceStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), HTTPSource{URL: srv.URL}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
	var le *models.LoadError
	assert.True(t, errors.As(err, &le))
}

func TestPostgresSource(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "u_name", "serial", "date", "data"}).
		AddRow("r1", "X", "S1", "2024-01-01T00:00:00", []byte(`{"a_temp": 20, "a_humidity": "50"}`)).
		AddRow("r2", "X", "S1", "2024-01-01T12:00:00", []byte(`{"a_temp": "30", "a_humidity": 50}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, u_name, serial, date, data FROM sensor_log")).
		WillReturnRows(rows)

	src, err := NewPostgresSourceWithDB(db, "")
	require.NoError(t, err)

	st, err := Load(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, []string{"X S1"}, st.ListDeviceIdentities())
	assert.Equal(t, []string{"a"}, st.ListSensors("X S1"))

	set, err := st.FilterByDateRange(models.DateRange{})
	require.NoError(t, err)
	rec, ok := set.Get("r1")
	require.True(t, ok)
	assert.Equal(t, models.Num(20), models.Coerce(rec.Data["a_temp"]))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, u_name, serial, date, data FROM readings")).
		WillReturnError(errors.New("relation does not exist"))

	src, err := NewPostgresSourceWithDB(db, "readings")
	require.NoError(t, err)

	_, err = Load(context.Background(), src, nil)
	require.Error(t, err)
	var le *models.LoadError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, "postgres:readings", le.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceRejectsTableName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresSourceWithDB(db, "x; DROP TABLE y")
	assert.Error(t, err)
}
