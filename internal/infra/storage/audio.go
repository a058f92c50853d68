package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AudioStore keeps synthesized speech files on disk under random names
// and deletes them once they outlive the retention window.
type AudioStore struct {
	dir       string
	retention time.Duration
	logger    *slog.Logger
}

func NewAudioStore(dir string, retention time.Duration, logger *slog.Logger) (*AudioStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audio dir: %w", err)
	}
	return &AudioStore{
		dir:       dir,
		retention: retention,
		logger:    logger,
	}, nil
}

// Save writes data under a fresh uuid-based filename and returns the
// filename. Random names avoid the collisions a content-derived hash
// would produce for repeated identical text.
func (s *AudioStore) Save(data []byte) (string, error) {
	name := uuid.NewString() + ".mp3"
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	return name, nil
}

// Open opens a stored file for serving. Names containing path separators
// are rejected.
func (s *AudioStore) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) || name == "." || name == "" {
		return nil, fmt.Errorf("invalid audio filename: %s", name)
	}
	return os.Open(filepath.Join(s.dir, name))
}

// StartCleanup deletes expired files on each tick until ctx is done.
func (s *AudioStore) StartCleanup(ctx context.Context, interval time.Duration) {
	if s.retention <= 0 || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.RemoveExpired()
				if err != nil {
					s.logger.Error("audio cleanup", "error", err)
				} else if removed > 0 {
					s.logger.Info("removed expired audio files", "count", removed)
				}
			}
		}
	}()
}

// RemoveExpired deletes files older than the retention window and
// returns how many were removed.
func (s *AudioStore) RemoveExpired() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading audio dir: %w", err)
	}

	cutoff := time.Now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
