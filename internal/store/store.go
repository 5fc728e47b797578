// Package store holds the sensor log snapshot in memory.
//
// The snapshot is loaded once at startup from a Source (a JSON file, an
// in-memory document, an HTTP endpoint or a Postgres table) and is
// read-only afterwards. Every query receives the store explicitly; there is
// no package level state.
//
// Example usage:
//
//	st, err := store.Load(ctx, store.FileSource{Path: "log.txt"}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, err := st.FilterByDateRange(dateRange)
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensorlog/sensorview/internal/models"
)

const (
	tempSuffix     = "_temp"
	humiditySuffix = "_humidity"
)

// RecordStore defines the read operations over a loaded snapshot.
type RecordStore interface {
	// FilterByDateRange returns the records whose day lies within r, both
	// bounds inclusive. An unbounded range returns the whole snapshot.
	FilterByDateRange(r models.DateRange) (*RecordSet, error)

	// ListDeviceIdentities returns the distinct device identities, sorted.
	ListDeviceIdentities() []string

	// ListParameters returns every parameter name reported by a device.
	ListParameters(device string) []string

	// ListSensors returns the sensors of a device that report both a
	// temperature and a humidity parameter.
	ListSensors(device string) []string

	// Len returns the number of loaded records.
	Len() int
}

// MemoryStore implements RecordStore over an immutable snapshot.
type MemoryStore struct {
	all     *RecordSet
	days    map[string]dayEntry
	devices map[string]*deviceEntry
}

type dayEntry struct {
	day time.Time
	err error
}

type deviceEntry struct {
	params map[string]struct{}
}

// New builds a store from a decoded snapshot. The snapshot must not be
// modified afterwards.
func New(snapshot models.Snapshot) *MemoryStore {
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := &MemoryStore{
		all:     &RecordSet{ids: ids, records: snapshot},
		days:    make(map[string]dayEntry, len(snapshot)),
		devices: make(map[string]*deviceEntry),
	}

	for _, id := range ids {
		rec := snapshot[id]
		if rec.ID == "" {
			rec.ID = id
			snapshot[id] = rec
		}

		day, err := rec.Date()
		s.days[id] = dayEntry{day: day, err: err}

		dev, ok := s.devices[rec.DeviceIdentity()]
		if !ok {
			dev = &deviceEntry{params: make(map[string]struct{})}
			s.devices[rec.DeviceIdentity()] = dev
		}
		for param := range rec.Data {
			dev.params[param] = struct{}{}
		}
	}

	return s
}

// Load fetches the snapshot from src and builds a store. Any failure is
// returned as a *models.LoadError.
func Load(ctx context.Context, src Source, logger *logrus.Logger) (*MemoryStore, error) {
	snapshot, err := src.Fetch(ctx)
	if err != nil {
		return nil, &models.LoadError{Source: src.Name(), Err: err}
	}

	s := New(snapshot)
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"source":  src.Name(),
			"records": s.Len(),
			"devices": len(s.devices),
		}).Info("Snapshot loaded")
	}
	return s, nil
}

func (s *MemoryStore) Len() int {
	return s.all.Len()
}

func (s *MemoryStore) FilterByDateRange(r models.DateRange) (*RecordSet, error) {
	if r.Unbounded() {
		return s.all, nil
	}

	ids := make([]string, 0, len(s.all.ids))
	for _, id := range s.all.ids {
		entry := s.days[id]
		if entry.err != nil {
			return nil, entry.err
		}
		if r.Contains(entry.day) {
			ids = append(ids, id)
		}
	}
	return &RecordSet{ids: ids, records: s.all.records}, nil
}

func (s *MemoryStore) ListDeviceIdentities() []string {
	out := make([]string, 0, len(s.devices))
	for device := range s.devices {
		out = append(out, device)
	}
	sort.Strings(out)
	return out
}

func (s *MemoryStore) ListParameters(device string) []string {
	dev, ok := s.devices[device]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(dev.params))
	for param := range dev.params {
		out = append(out, param)
	}
	sort.Strings(out)
	return out
}

func (s *MemoryStore) ListSensors(device string) []string {
	dev, ok := s.devices[device]
	if !ok {
		return []string{}
	}
	out := []string{}
	for param := range dev.params {
		if !strings.HasSuffix(param, tempSuffix) {
			continue
		}
		sensor := strings.TrimSuffix(param, tempSuffix)
		if _, ok := dev.params[sensor+humiditySuffix]; ok {
			out = append(out, sensor)
		}
	}
	sort.Strings(out)
	return out
}

// RecordSet is a read-only view over snapshot records, iterated in record
// id order.
type RecordSet struct {
	ids     []string
	records map[string]models.Record
}

// Len returns the number of records in the set.
func (rs *RecordSet) Len() int {
	return len(rs.ids)
}

// Get looks up a record by id.
func (rs *RecordSet) Get(id string) (models.Record, bool) {
	i := sort.SearchStrings(rs.ids, id)
	if i == len(rs.ids) || rs.ids[i] != id {
		return models.Record{}, false
	}
	return rs.records[id], true
}

// IDs returns the record ids in iteration order.
func (rs *RecordSet) IDs() []string {
	out := make([]string, len(rs.ids))
	copy(out, rs.ids)
	return out
}

// Each calls fn for every record in id order.
func (rs *RecordSet) Each(fn func(models.Record)) {
	for _, id := range rs.ids {
		fn(rs.records[id])
	}
}

// Compile-time interface implementation check
var _ RecordStore = (*MemoryStore)(nil)
