package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/sensorlog/sensorview/internal/models"
)

func TestRequestValidator_Validate(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name    string
		query   ComfortQuery
		wantErr error
	}{
		{
			name:  "valid request",
			query: ComfortQuery{Device: "X S1", Sensors: []string{"in"}, Start: "2024-01-01", End: "2024-01-31", Mode: "3h", Metric: "feeling"},
		},
		{
			name:  "defaults",
			query: ComfortQuery{Device: "X S1", Sensors: []string{"in"}},
		},
		{
			name:    "invalid mode",
			query:   ComfortQuery{Mode: "2h"},
			wantErr: models.ErrInvalidMode,
		},
		{
			name:    "invalid metric",
			query:   ComfortQuery{Metric: "humidex"},
			wantErr: models.ErrInvalidMetric,
		},
		{
			name:    "empty sensor name",
			query:   ComfortQuery{Sensors: []string{"in", " "}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "too many sensors",
			query:   ComfortQuery{Sensors: strings.Split(strings.Repeat("s,", 300)+"s", ",")},
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ValidateComfort(tt.query)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateComfort() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateComfort() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestValidator_BadDate(t *testing.T) {
	_, err := NewRequestValidator().ValidateTable(TableQuery{End: "31.01.2024"})
	var dpe *models.DateParseError
	if !errors.As(err, &dpe) {
		t.Fatalf("ValidateTable() error = %v, want *models.DateParseError", err)
	}
	if dpe.Subject != "end" {
		t.Errorf("Subject = %q, want %q", dpe.Subject, "end")
	}
}
