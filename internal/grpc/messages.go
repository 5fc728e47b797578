package server

import (
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sensorlog/sensorview/internal/models"
	"github.com/sensorlog/sensorview/internal/service"
)

// Request document keys.
const (
	fieldDevice     = "device"
	fieldParameters = "parameters"
	fieldSensors    = "sensors"
	fieldStart      = "start"
	fieldEnd        = "end"
	fieldMode       = "mode"
	fieldMetric     = "metric"
)

// Table document keys.
const (
	fieldIndex   = "index"
	fieldColumns = "columns"
	fieldRows    = "rows"
)

func encodeStrings(items []string) (*structpb.ListValue, error) {
	list, err := structpb.NewList(stringsToInterfaces(items))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode list: %v", err)
	}
	return list, nil
}

// DecodeStrings converts a list of strings, rejecting any other element kind.
func DecodeStrings(list *structpb.ListValue) ([]string, error) {
	out := make([]string, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

// EncodeTableQuery builds the request document for QueryTable and ExportTableCSV.
func EncodeTableQuery(q service.TableQuery) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		fieldDevice:     q.Device,
		fieldParameters: stringsToInterfaces(q.Parameters),
		fieldStart:      q.Start,
		fieldEnd:        q.End,
		fieldMode:       q.Mode,
	})
}

// EncodeComfortQuery builds the request document for QueryComfort.
func EncodeComfortQuery(q service.ComfortQuery) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		fieldDevice:  q.Device,
		fieldSensors: stringsToInterfaces(q.Sensors),
		fieldStart:   q.Start,
		fieldEnd:     q.End,
		fieldMode:    q.Mode,
		fieldMetric:  q.Metric,
	})
}

func decodeTableQuery(req *structpb.Struct) (service.TableQuery, error) {
	var q service.TableQuery
	d := requestDecoder{fields: req.GetFields()}
	q.Device = d.str(fieldDevice)
	q.Parameters = d.strs(fieldParameters)
	q.Start = d.str(fieldStart)
	q.End = d.str(fieldEnd)
	q.Mode = d.str(fieldMode)
	return q, d.err
}

func decodeComfortQuery(req *structpb.Struct) (service.ComfortQuery, error) {
	var q service.ComfortQuery
	d := requestDecoder{fields: req.GetFields()}
	q.Device = d.str(fieldDevice)
	q.Sensors = d.strs(fieldSensors)
	q.Start = d.str(fieldStart)
	q.End = d.str(fieldEnd)
	q.Mode = d.str(fieldMode)
	q.Metric = d.str(fieldMetric)
	return q, d.err
}

// requestDecoder reads optional string fields and keeps the first error.
type requestDecoder struct {
	fields map[string]*structpb.Value
	err    error
}

func (d *requestDecoder) str(key string) string {
	v, ok := d.fields[key]
	if !ok || d.err != nil {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NullValue:
		return ""
	}
	d.err = status.Errorf(codes.InvalidArgument, "field %q must be a string", key)
	return ""
}

func (d *requestDecoder) strs(key string) []string {
	v, ok := d.fields[key]
	if !ok || d.err != nil {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	list := v.GetListValue()
	if list == nil {
		d.err = status.Errorf(codes.InvalidArgument, "field %q must be a list of strings", key)
		return nil
	}
	out, err := DecodeStrings(list)
	if err != nil {
		d.err = status.Errorf(codes.InvalidArgument, "field %q: %v", key, err)
		return nil
	}
	return out
}

func stringsToInterfaces(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func encodeTable(t *models.Table) (*structpb.Struct, error) {
	index := make([]*structpb.Value, len(t.Index))
	for i, ts := range t.Index {
		index[i] = structpb.NewStringValue(ts.UTC().Format(time.RFC3339Nano))
	}

	columns := make([]*structpb.Value, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = structpb.NewStringValue(c)
	}

	rows := make([]*structpb.Value, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]*structpb.Value, len(row))
		for j, cell := range row {
			cells[j] = encodeCell(cell)
		}
		rows[i] = structpb.NewListValue(&structpb.ListValue{Values: cells})
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldIndex:   structpb.NewListValue(&structpb.ListValue{Values: index}),
		fieldColumns: structpb.NewListValue(&structpb.ListValue{Values: columns}),
		fieldRows:    structpb.NewListValue(&structpb.ListValue{Values: rows}),
	}}, nil
}

func encodeCell(v models.Value) *structpb.Value {
	if f, ok := v.Float(); ok {
		return structpb.NewNumberValue(f)
	}
	if s, ok := v.Text(); ok {
		return structpb.NewStringValue(s)
	}
	return structpb.NewNullValue()
}

// DecodeTable converts a table document back into a Table.
func DecodeTable(doc *structpb.Struct) (*models.Table, error) {
	fields := doc.GetFields()

	columns, err := DecodeStrings(fields[fieldColumns].GetListValue())
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	index, err := DecodeStrings(fields[fieldIndex].GetListValue())
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	rows := fields[fieldRows].GetListValue().GetValues()
	if len(rows) != len(index) {
		return nil, fmt.Errorf("table has %d index entries and %d rows", len(index), len(rows))
	}

	t := models.NewTable(columns...)
	for i, raw := range index {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		cells := rows[i].GetListValue().GetValues()
		if len(cells) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(cells), len(columns))
		}
		row := make([]models.Value, len(cells))
		for j, c := range cells {
			switch k := c.GetKind().(type) {
			case *structpb.Value_NumberValue:
				row[j] = models.Num(k.NumberValue)
			case *structpb.Value_StringValue:
				row[j] = models.Str(k.StringValue)
			default:
				row[j] = models.Null
			}
		}
		t.AppendRow(ts.UTC(), row)
	}
	return t, nil
}
