package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically removes per-download folders that were never fetched
type Janitor struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	onRemove  func(name string)
	logger    *zap.Logger
}

// NewJanitor creates a janitor for dir. onRemove, if set, is called with the
// name of every removed folder.
func NewJanitor(dir string, retention, interval time.Duration, onRemove func(name string), logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{
		dir:       dir,
		retention: retention,
		interval:  interval,
		onRemove:  onRemove,
		logger:    logger,
	}
}

// Run sweeps every interval until ctx is cancelled
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := j.Sweep(now); err != nil {
				j.logger.Error("Cleanup sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep removes folders of dir last modified more than retention before now
func (j *Janitor) Sweep(now time.Time) ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read downloads directory: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			j.logger.Warn("Could not stat download folder", zap.String("folder", entry.Name()), zap.Error(err))
			continue
		}
		if now.Sub(info.ModTime()) <= j.retention {
			continue
		}

		if err := os.RemoveAll(filepath.Join(j.dir, entry.Name())); err != nil {
			j.logger.Warn("Failed to remove stale folder", zap.String("folder", entry.Name()), zap.Error(err))
			continue
		}

		j.logger.Info("Removed stale download folder", zap.String("folder", entry.Name()))
		removed = append(removed, entry.Name())
		if j.onRemove != nil {
			j.onRemove(entry.Name())
		}
	}

	return removed, nil
}
