package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

const (
	snapshotDirName  = ".snapshots"
	snapshotFileGlob = "snapshot-*.json"
)

// source is whatever can dump its full state for a snapshot. Pause must
// block writes until Resume; the manager holds it from export through
// checkpoint so no acknowledged mutation can fall between the two.
type source interface {
	Export() (*rowvault.Snapshot, error)
	Pause()
	Resume()
}

// checkpointer truncates the journal once a snapshot covers it.
type checkpointer interface {
	Checkpoint() error
}

// Manager writes periodic full snapshots of the store to disk and rotates
// old ones out.
type Manager struct {
	rootDir     string
	snapshotDir string
	source      source
	checkpoint  checkpointer

	snapshotTimer    time.Duration
	maxSnapshotLimit int

	mutex     sync.Mutex
	procCtx   context.Context
	ctxCancel context.CancelFunc
}

type Config struct {
	RootDir          string
	Source           source
	Checkpoint       checkpointer
	SnapshotTimer    int // seconds between snapshots
	MaxSnapshotLimit int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.RootDir == "" {
		errGrp = append(errGrp, fmt.Errorf("data directory is required"))
	}
	if c.Source == nil {
		errGrp = append(errGrp, fmt.Errorf("snapshot source is required"))
	}
	if c.SnapshotTimer < 1 {
		errGrp = append(errGrp, fmt.Errorf("snapshot timer must be greater than 0"))
	}
	if c.MaxSnapshotLimit < 1 || c.MaxSnapshotLimit > 50 {
		errGrp = append(errGrp, fmt.Errorf("max snapshot limit must be between 1 and 50"))
	}
	return errors.Join(errGrp...)
}

// New creates a new disk storage manager
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	snapDir := filepath.Join(cfg.RootDir, snapshotDirName)
	if err := os.MkdirAll(snapDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		rootDir:          cfg.RootDir,
		snapshotDir:      snapDir,
		source:           cfg.Source,
		checkpoint:       cfg.Checkpoint,
		snapshotTimer:    time.Duration(cfg.SnapshotTimer) * time.Second,
		maxSnapshotLimit: cfg.MaxSnapshotLimit,
		procCtx:          ctx,
		ctxCancel:        cancel,
	}, nil
}

func (m *Manager) Start() error {
	go func() {
		ticker := time.NewTicker(m.snapshotTimer)
		defer ticker.Stop()
		for {
			select {
			case <-m.procCtx.Done():
				return
			case <-ticker.C:
				if err := m.Snapshot(); err != nil {
					log.Error().Err(err).Msg("Snapshot failed")
				}
			}
		}
	}()
	return nil
}

// Stop takes one final snapshot before shutting the loop down.
func (m *Manager) Stop() error {
	if err := m.Snapshot(); err != nil {
		log.Error().Err(err).Msg("Final snapshot failed")
	}
	if m.ctxCancel != nil {
		m.ctxCancel()
	}
	return nil
}

func (m *Manager) Name() string {
	return "Snapshot Storage"
}
