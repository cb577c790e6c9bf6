package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileSnapshotter keeps the envelope in a single JSON file on local disk,
// the default backend.
type FileSnapshotter struct {
	path   string
	logger *zap.Logger
}

// NewFileSnapshotter creates the backend, ensuring the parent directory
// exists.
func NewFileSnapshotter(path string, logger *zap.Logger) (*FileSnapshotter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileSnapshotter{path: path, logger: logger}, nil
}

// Load reads the snapshot file. A missing file, unreadable contents, or a
// schema mismatch all resolve to "no prior state".
func (f *FileSnapshotter) Load(_ context.Context) (*Envelope, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("unable to read snapshot file", zap.String("path", f.path), zap.Error(err))
		}
		return nil, false, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		f.logger.Warn("discarding corrupt snapshot", zap.String("path", f.path), zap.Error(err))
		return nil, false, nil
	}
	if env.SchemaVersion != SchemaVersion {
		f.logger.Warn("discarding snapshot with unknown schema version",
			zap.Int("found", env.SchemaVersion), zap.Int("expected", SchemaVersion))
		return nil, false, nil
	}
	return &env, true, nil
}

// Save overwrites the snapshot file with the full envelope.
func (f *FileSnapshotter) Save(_ context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

// Close is a no-op for the file backend.
func (f *FileSnapshotter) Close() {}
