package middleware

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDHeader is the metadata key carrying the request id.
const RequestIDHeader = "x-request-id"

// ContextMiddleware tags every request with an id, reusing the one sent by
// the caller when present, and echoes it back in the response header.
func ContextMiddleware(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	id := incomingRequestID(ctx)
	if id == "" {
		id = generateRequestID()
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
	return handler(ctx, req)
}

// RequestIDFromContext returns the id assigned by ContextMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(RequestIDHeader); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func generateRequestID() string {
	return uuid.NewString()
}
