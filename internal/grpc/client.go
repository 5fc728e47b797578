package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/service"
)

// Client calls a remote SensorView service.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) ListDevices(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, fullMethod("ListDevices"), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return DecodeStrings(out)
}

func (c *Client) ListParameters(ctx context.Context, device string, opts ...grpc.CallOption) ([]string, error) {
	return c.listFor(ctx, "ListParameters", device, opts...)
}

func (c *Client) ListSensors(ctx context.Context, device string, opts ...grpc.CallOption) ([]string, error) {
	return c.listFor(ctx, "ListSensors", device, opts...)
}

func (c *Client) listFor(ctx context.Context, method, device string, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.conn.Invoke(ctx, fullMethod(method), wrapperspb.String(device), out, opts...); err != nil {
		return nil, err
	}
	return DecodeStrings(out)
}

func (c *Client) QueryTable(ctx context.Context, q service.TableQuery, opts ...grpc.CallOption) (*models.Table, error) {
	req, err := EncodeTableQuery(q)
	if err != nil {
		return nil, err
	}
	return c.queryTable(ctx, "QueryTable", req, opts...)
}

func (c *Client) QueryComfort(ctx context.Context, q service.ComfortQuery, opts ...grpc.CallOption) (*models.Table, error) {
	req, err := EncodeComfortQuery(q)
	if err != nil {
		return nil, err
	}
	return c.queryTable(ctx, "QueryComfort", req, opts...)
}

// ExportTableCSV returns the table of a QueryTable request as CSV.
func (c *Client) ExportTableCSV(ctx context.Context, q service.TableQuery, opts ...grpc.CallOption) ([]byte, error) {
	req, err := EncodeTableQuery(q)
	if err != nil {
		return nil, err
	}
	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, fullMethod("ExportTableCSV"), req, out, opts...); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

func (c *Client) queryTable(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*models.Table, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, fullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return DecodeTable(out)
}
