// Package sensorview implements a read-only query service over a snapshot
// of sensor readings.
//
// # Architecture
//
// The service is structured into several key packages:
//   - models: Records, table cells, tables, query parameters and errors
//   - store: Snapshot loading (file, HTTP, PostgreSQL) and the in-memory record store
//   - table: Device tables built from records, plus dataframe and CSV export
//   - resample: Hourly, three-hourly and daily aggregation
//   - comfort: Effective temperature and feeling classification
//   - service: The query pipeline called by presentation layers
//   - grpc: gRPC service implementation
//   - config: YAML configuration with environment expansion
//
// Key Features
//
//   - Snapshot:
//     The whole reading log is loaded once at startup and never changes,
//     so every query can be served concurrently from shared memory.
//
//   - Aggregation:
//     Tables can be resampled to hourly, three-hourly or daily means, or
//     to daily minimum and maximum values. Windows are right-closed and
//     labelled by their end.
//
//   - Comfort:
//     Temperature and humidity sensor pairs are turned into an effective
//     temperature and a feeling label with a numeric level.
//
// Example Usage
//
//	client := server.NewClient(conn)
//	table, err := client.QueryTable(ctx, service.TableQuery{
//	    Device:     "Kitchen 0042",
//	    Parameters: []string{"in_temp", "in_humidity"},
//	    Start:      "2024-01-01",
//	    Mode:       "1d",
//	})
//
// For more information about specific packages, see their respective
// documentation.
package sensorview
