package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the day-granularity prefix of every record timestamp.
const dateLayout = "2006-01-02"

// timestampLayouts are tried in order when parsing a full record timestamp.
// Timestamps without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	dateLayout,
}

// Record represents one sensor report from the log snapshot
type Record struct {
	ID         string                 `json:"-"`
	DeviceName string                 `json:"uName"`
	Serial     string                 `json:"serial"`
	Timestamp  string                 `json:"Date"`
	Data       map[string]interface{} `json:"data"`
}

// DeviceIdentity returns the "{deviceName} {serial}" key of the reporting unit.
func (r Record) DeviceIdentity() string {
	return DeviceIdentity(r.DeviceName, r.Serial)
}

// DeviceIdentity joins a device name and serial the way the presentation
// layer enumerates devices.
func DeviceIdentity(name, serial string) string {
	return fmt.Sprintf("%s %s", name, serial)
}

// Date returns the day the record was taken, read from the first ten
// characters of its timestamp.
func (r Record) Date() (time.Time, error) {
	if len(r.Timestamp) < len(dateLayout) {
		return time.Time{}, &DateParseError{Subject: r.ID, Input: r.Timestamp, Err: errShortDate}
	}
	day, err := time.Parse(dateLayout, r.Timestamp[:len(dateLayout)])
	if err != nil {
		return time.Time{}, &DateParseError{Subject: r.ID, Input: r.Timestamp, Err: err}
	}
	return day, nil
}

// Time parses the full record timestamp.
func (r Record) Time() (time.Time, error) {
	ts, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return time.Time{}, &DateParseError{Subject: r.ID, Input: r.Timestamp, Err: err}
	}
	return ts, nil
}

// ParseTimestamp parses an ISO-8601 date-time as written by the devices.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Snapshot is the startup document: record id -> record.
type Snapshot map[string]Record

// UnmarshalJSON keeps numbers as json.Number so that integer readings are
// not rounded before coercion, and copies each key into Record.ID.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("snapshot document is null")
	}
	out := make(Snapshot, len(raw))
	for id, body := range raw {
		rec, err := DecodeRecord(id, body)
		if err != nil {
			return err
		}
		out[id] = rec
	}
	*s = out
	return nil
}

// DecodeRecord decodes a single record object.
func DecodeRecord(id string, body []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("record %q: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}
