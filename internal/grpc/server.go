//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/querier.go -package=mocks . Querier

// Package server exposes the sensor view queries over gRPC.
//
// The service sensorview.v1.SensorView is declared by hand with
// well-known protobuf types as messages: requests are structpb.Struct
// documents and tables are returned as
//
//	{"index": [RFC3339Nano timestamps], "columns": [names], "rows": [[cells]]}
//
// where a cell is a number, a string or null.
package server

import (
	"bytes"
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	middleware "github.com/sensorlog/sensorview/internal/grpc/middlewares"
	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/service"
	"github.com/sensorlog/sensorview/internal/table"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sensorview.v1.SensorView"

// ServerConfig holds configuration options for the gRPC server
type ServerConfig struct {
	CacheSize       int            // Size of the LRU cache
	RateLimit       float64        // Requests per second
	RateLimitBurst  int            // Maximum burst size for rate limiting
	SnapshotRecords int            // Records in the loaded snapshot, exported as a gauge
	Health          *HealthChecker // Optional; a new one is created when nil
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		CacheSize:      1000,
		RateLimit:      5.0, // 5 requests per second
		RateLimitBurst: 10,  // Burst of 10 requests
	}
}

// Querier is the collaborator boundary served over gRPC.
type Querier interface {
	ListDeviceIdentities() []string
	ListParametersForDevice(device string) []string
	ListSensorsWithTempAndHumidity(device string) []string
	QueryTable(ctx context.Context, q service.TableQuery) (*models.Table, error)
	QueryComfort(ctx context.Context, q service.ComfortQuery) (*models.Table, error)
}

// SensorViewServer is the server API of sensorview.v1.SensorView.
type SensorViewServer interface {
	ListDevices(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	ListParameters(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	ListSensors(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	QueryTable(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QueryComfort(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportTableCSV(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
}

// SensorViewService adapts a Querier to the gRPC API.
type SensorViewService struct {
	querier Querier
}

// NewSensorViewService creates a new service instance
func NewSensorViewService(q Querier) *SensorViewService {
	return &SensorViewService{querier: q}
}

func (s *SensorViewService) ListDevices(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	return encodeStrings(s.querier.ListDeviceIdentities())
}

func (s *SensorViewService) ListParameters(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return encodeStrings(s.querier.ListParametersForDevice(req.GetValue()))
}

func (s *SensorViewService) ListSensors(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	return encodeStrings(s.querier.ListSensorsWithTempAndHumidity(req.GetValue()))
}

func (s *SensorViewService) QueryTable(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := decodeTableQuery(req)
	if err != nil {
		return nil, err
	}
	t, err := s.querier.QueryTable(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeTable(t)
}

func (s *SensorViewService) QueryComfort(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := decodeComfortQuery(req)
	if err != nil {
		return nil, err
	}
	t, err := s.querier.QueryComfort(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeTable(t)
}

func (s *SensorViewService) ExportTableCSV(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	q, err := decodeTableQuery(req)
	if err != nil {
		return nil, err
	}
	t, err := s.querier.QueryTable(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(buf.Bytes()), nil
}

// SensorViewServiceDesc describes sensorview.v1.SensorView for registration.
var SensorViewServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SensorViewServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListDevices",
			Handler: unaryHandler[emptypb.Empty]("ListDevices", func(s SensorViewServer, ctx context.Context, in *emptypb.Empty) (proto.Message, error) {
				return s.ListDevices(ctx, in)
			}),
		},
		{
			MethodName: "ListParameters",
			Handler: unaryHandler[wrapperspb.StringValue]("ListParameters", func(s SensorViewServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
				return s.ListParameters(ctx, in)
			}),
		},
		{
			MethodName: "ListSensors",
			Handler: unaryHandler[wrapperspb.StringValue]("ListSensors", func(s SensorViewServer, ctx context.Context, in *wrapperspb.StringValue) (proto.Message, error) {
				return s.ListSensors(ctx, in)
			}),
		},
		{
			MethodName: "QueryTable",
			Handler: unaryHandler[structpb.Struct]("QueryTable", func(s SensorViewServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return s.QueryTable(ctx, in)
			}),
		},
		{
			MethodName: "QueryComfort",
			Handler: unaryHandler[structpb.Struct]("QueryComfort", func(s SensorViewServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return s.QueryComfort(ctx, in)
			}),
		},
		{
			MethodName: "ExportTableCSV",
			Handler: unaryHandler[structpb.Struct]("ExportTableCSV", func(s SensorViewServer, ctx context.Context, in *structpb.Struct) (proto.Message, error) {
				return s.ExportTableCSV(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sensorview/v1/sensorview.proto",
}

// RegisterSensorViewServer registers srv on s.
func RegisterSensorViewServer(s grpc.ServiceRegistrar, srv SensorViewServer) {
	s.RegisterService(&SensorViewServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unaryHandler builds the method handler a protoc plugin would generate for
// a unary method taking *T.
func unaryHandler[T any, PT interface {
	*T
	proto.Message
}](name string, call func(SensorViewServer, context.Context, PT) (proto.Message, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := PT(new(T))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SensorViewServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SensorViewServer), ctx, req.(PT))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ConfigureGRPCServer registers the service without the middleware (for development and debug only)
func ConfigureGRPCServer(
	q Querier,
	opts ...grpc.ServerOption,
) *grpc.Server {
	srv := grpc.NewServer(opts...)
	RegisterSensorViewServer(srv, NewSensorViewService(q))
	return srv
}

// SetupServer initializes the gRPC server with all middleware, registering
// metrics on the default Prometheus registry.
func SetupServer(q Querier, config ServerConfig) (*grpc.Server, error) {
	return SetupServerWithRegistry(q, config, logrus.StandardLogger(), prometheus.DefaultRegisterer)
}

// SetupServerWithRegistry initializes and configures the gRPC server with
// all middleware, registering metrics on registry.
func SetupServerWithRegistry(
	q Querier,
	config ServerConfig,
	logger *logrus.Logger,
	registry prometheus.Registerer,
) (*grpc.Server, error) {
	cache, err := middleware.NewResponseCache(config.CacheSize)
	if err != nil {
		return nil, err
	}

	requests := middleware.NewRequestsCounter()
	if err := registerCollector(registry, requests, func(c prometheus.Collector) { requests = c.(*prometheus.CounterVec) }); err != nil {
		return nil, err
	}
	latency := middleware.NewLatencyHistogram()
	if err := registerCollector(registry, latency, func(c prometheus.Collector) { latency = c.(*prometheus.HistogramVec) }); err != nil {
		return nil, err
	}
	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sensorview",
		Name:      "snapshot_records",
		Help:      "Number of records in the loaded snapshot.",
	})
	if err := registerCollector(registry, records, func(c prometheus.Collector) { records = c.(prometheus.Gauge) }); err != nil {
		return nil, err
	}
	records.Set(float64(config.SnapshotRecords))

	// Create server with chained interceptors
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(
			chainUnaryInterceptors(
				middleware.ContextMiddleware, // Add request ID first
				middleware.NewRateLimitingInterceptor(config.RateLimit, config.RateLimitBurst), // Rate limit early
				middleware.NewLoggingInterceptor(logger),                                       // Log all requests (with request ID)
				middleware.NewMetricsInterceptor(requests, latency),                            // Collect metrics
				cache.Interceptor, // Cache last to avoid caching errors
			),
		),
	)

	RegisterSensorViewServer(srv, NewSensorViewService(q))

	health := config.Health
	if health == nil {
		health = NewHealthChecker()
	}
	health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(srv, health)

	return srv, nil
}

// registerCollector registers c, reusing an identical collector already
// present in the registry.
func registerCollector(registry prometheus.Registerer, c prometheus.Collector, reuse func(prometheus.Collector)) error {
	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			reuse(are.ExistingCollector)
			return nil
		}
		return err
	}
	return nil
}

// chainUnaryInterceptors creates a single interceptor from multiple interceptors
func chainUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			interceptor := interceptors[i]
			chainedInterceptor := chain
			chain = func(currentCtx context.Context, currentReq interface{}) (interface{}, error) {
				return interceptor(currentCtx, currentReq, info, chainedInterceptor)
			}
		}
		return chain(ctx, req)
	}
}
