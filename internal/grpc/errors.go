package server

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/service"
)

// toStatus maps query errors to gRPC status errors.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	var (
		dateErr    *models.DateParseError
		missingErr *models.MissingColumnError
		textErr    *models.NonNumericError
	)
	switch {
	case errors.Is(err, models.ErrInvalidMode),
		errors.Is(err, models.ErrInvalidMetric),
		errors.Is(err, service.ErrInvalidRequest),
		errors.As(err, &dateErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &missingErr), errors.As(err, &textErr):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
