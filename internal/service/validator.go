package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sensorlog/sensorview/internal/models"
)

// ErrInvalidRequest marks malformed request parameters.
var ErrInvalidRequest = errors.New("invalid request")

// TableQuery is a raw table request as sent by the presentation layer.
type TableQuery struct {
	Device     string
	Parameters []string
	Start      string
	End        string
	Mode       string
}

// ComfortQuery is a raw comfort request as sent by the presentation layer.
type ComfortQuery struct {
	Device  string
	Sensors []string
	Start   string
	End     string
	Mode    string
	Metric  string
}

// ParsedQuery holds a validated request.
type ParsedQuery struct {
	Device string
	Names  []string
	Dates  models.DateRange
	Mode   models.AggregationMode
	Metric models.Metric
}

// RequestValidator parses and checks request parameters.
type RequestValidator struct {
	maxNames int
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{maxNames: 256}
}

// ValidateTable checks a table request.
func (v *RequestValidator) ValidateTable(q TableQuery) (ParsedQuery, error) {
	return v.validate(q.Device, q.Parameters, q.Start, q.End, q.Mode, "")
}

// ValidateComfort checks a comfort request.
func (v *RequestValidator) ValidateComfort(q ComfortQuery) (ParsedQuery, error) {
	return v.validate(q.Device, q.Sensors, q.Start, q.End, q.Mode, q.Metric)
}

func (v *RequestValidator) validate(device string, names []string, start, end, mode, metric string) (ParsedQuery, error) {
	var vq ParsedQuery
	var err error

	if len(names) > v.maxNames {
		return vq, fmt.Errorf("%w: too many names: %d", ErrInvalidRequest, len(names))
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return vq, fmt.Errorf("%w: empty name", ErrInvalidRequest)
		}
	}

	if vq.Mode, err = models.ParseAggregationMode(mode); err != nil {
		return vq, err
	}
	if vq.Metric, err = models.ParseMetric(metric); err != nil {
		return vq, err
	}
	if vq.Dates, err = models.ParseDateRange(start, end); err != nil {
		return vq, err
	}

	vq.Device = device
	vq.Names = names
	return vq, nil
}
