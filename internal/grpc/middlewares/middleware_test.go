package middleware

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/sensorview.v1.SensorView/QueryTable"}

func okHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "ok", nil
}

func TestContextMiddleware(t *testing.T) {
	var seen string
	capture := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = RequestIDFromContext(ctx)
		return nil, nil
	}

	_, err := ContextMiddleware(context.Background(), nil, testInfo, capture)
	require.NoError(t, err)
	assert.Len(t, seen, 36, "expected a generated uuid")

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc-123"))
	_, err = ContextMiddleware(ctx, nil, testInfo, capture)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", seen)
}

func TestRateLimitingInterceptor(t *testing.T) {
	limit := NewRateLimitingInterceptor(0.001, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := limit(ctx, nil, testInfo, okHandler)
		require.NoError(t, err)
	}

	_, err := limit(ctx, nil, testInfo, okHandler)
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestRateLimitingDisabled(t *testing.T) {
	limit := NewRateLimitingInterceptor(0, 0)
	for i := 0; i < 100; i++ {
		_, err := limit(context.Background(), nil, testInfo, okHandler)
		require.NoError(t, err)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	requests := NewRequestsCounter()
	latency := NewLatencyHistogram()
	interceptor := NewMetricsInterceptor(requests, latency)

	_, err := interceptor(context.Background(), nil, testInfo, okHandler)
	require.NoError(t, err)
	_, err = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "bad")
	})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("QueryTable", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(requests.WithLabelValues("QueryTable", "InvalidArgument")))
	assert.Equal(t, 1, testutil.CollectAndCount(latency))
}

func TestLoggingInterceptor(t *testing.T) {
	logger, hook := test.NewNullLogger()
	interceptor := NewLoggingInterceptor(logger)

	_, err := interceptor(context.Background(), nil, testInfo, okHandler)
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, testInfo.FullMethod, hook.LastEntry().Data["method"])
	assert.Equal(t, "OK", hook.LastEntry().Data["code"])

	_, err = interceptor(context.Background(), nil, testInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Internal, "boom")
	})
	require.Error(t, err)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
