package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sensorlog/sensorview/internal/models"
)

// Source provides the startup snapshot.
type Source interface {
	// Name identifies the source in logs and load errors.
	Name() string

	// Fetch reads and decodes the whole snapshot.
	Fetch(ctx context.Context) (models.Snapshot, error)
}

// FileSource reads the snapshot from a JSON file.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string { return "file:" + f.Path }

func (f FileSource) Fetch(ctx context.Context) (models.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return BytesSource(data).Fetch(ctx)
}

// BytesSource decodes a snapshot held in memory.
type BytesSource []byte

func (b BytesSource) Name() string { return "bytes" }

func (b BytesSource) Fetch(ctx context.Context) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(b, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// StaticSource serves an already decoded snapshot.
type StaticSource models.Snapshot

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Fetch(ctx context.Context) (models.Snapshot, error) {
	return models.Snapshot(s), nil
}
