// Package service is the boundary the presentation layer calls into.
//
// Each query runs the whole pipeline (filter, project, resample, derive)
// against the shared read-only store and returns a freshly built table.
// Nothing is cached between calls, so a Service is safe for concurrent use.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensorlog/sensorview/internal/comfort"
	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/resample"
	"github.com/sensorlog/sensorview/internal/store"
	"github.com/sensorlog/sensorview/internal/table"
)

// Service implements the sensor view queries.
type Service struct {
	store     store.RecordStore
	resampler *resample.Resampler
	deriver   *comfort.Deriver
	validator *RequestValidator
	logger    *logrus.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithResampler replaces the default right-closed resampler.
func WithResampler(r *resample.Resampler) Option {
	return func(s *Service) { s.resampler = r }
}

// WithDeriver replaces the default English comfort deriver.
func WithDeriver(d *comfort.Deriver) Option {
	return func(s *Service) { s.deriver = d }
}

// NewService creates a new service instance
func NewService(st store.RecordStore, logger *logrus.Logger, opts ...Option) *Service {
	deriver, _ := comfort.NewDeriver("en")
	s := &Service{
		store:     st,
		resampler: resample.New(resample.ClosedRight),
		deriver:   deriver,
		validator: NewRequestValidator(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s
}

func (s *Service) ListDeviceIdentities() []string {
	return s.store.ListDeviceIdentities()
}

func (s *Service) ListParametersForDevice(device string) []string {
	if device == "" {
		return []string{}
	}
	return s.store.ListParameters(device)
}

func (s *Service) ListSensorsWithTempAndHumidity(device string) []string {
	if device == "" {
		return []string{}
	}
	return s.store.ListSensors(device)
}

// QueryTable returns the requested parameters of a device, filtered by date
// and resampled. An empty device or parameter list yields an empty table.
func (s *Service) QueryTable(ctx context.Context, q TableQuery) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vq, err := s.validator.ValidateTable(q)
	if err != nil {
		return nil, err
	}
	if vq.Device == "" || len(vq.Names) == 0 {
		return models.NewTable(vq.Names...), nil
	}

	start := time.Now()
	t, err := s.project(vq, vq.Names)
	if err != nil {
		return nil, err
	}
	t, err = s.resampler.Resample(t, vq.Mode)
	if err != nil {
		return nil, err
	}

	s.logQuery("table", vq, t, start)
	return t, nil
}

// QueryComfort derives effective temperature or feeling for the sensors of
// a device. Effective temperature is computed on raw rows; mean modes
// average the derived table; feeling is classified after averaging; the
// daily min/max mode is applied last.
func (s *Service) QueryComfort(ctx context.Context, q ComfortQuery) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vq, err := s.validator.ValidateComfort(q)
	if err != nil {
		return nil, err
	}
	if vq.Device == "" || len(vq.Names) == 0 {
		return models.NewTable(), nil
	}

	start := time.Now()
	t, err := s.project(vq, comfort.SourceColumns(vq.Names))
	if err != nil {
		return nil, err
	}
	if t, err = s.deriver.EffectiveTemperature(t, vq.Names); err != nil {
		return nil, err
	}

	switch vq.Mode {
	case models.ModeHourly, models.ModeThreeHourly, models.ModeDailyMean:
		if t, err = s.resampler.Resample(t, vq.Mode); err != nil {
			return nil, err
		}
	}

	if vq.Metric == models.MetricFeeling {
		if t, err = s.deriver.Feeling(t, vq.Names); err != nil {
			return nil, err
		}
	}

	if vq.Mode == models.ModeDailyMinMax {
		if t, err = s.resampler.Resample(t, vq.Mode); err != nil {
			return nil, err
		}
	}

	s.logQuery("comfort", vq, t, start)
	return t, nil
}

func (s *Service) project(vq ParsedQuery, columns []string) (*models.Table, error) {
	records, err := s.store.FilterByDateRange(vq.Dates)
	if err != nil {
		return nil, err
	}
	return table.Build(records, vq.Device, columns)
}

func (s *Service) logQuery(kind string, vq ParsedQuery, t *models.Table, start time.Time) {
	s.logger.WithFields(logrus.Fields{
		"query":    kind,
		"device":   vq.Device,
		"mode":     vq.Mode,
		"metric":   vq.Metric,
		"range":    vq.Dates.String(),
		"rows":     t.Len(),
		"duration": time.Since(start),
	}).Debug("Query served")
}
