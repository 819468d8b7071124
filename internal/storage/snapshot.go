package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

// Snapshot dumps the source to a new snapshot file, prunes files beyond the
// configured limit, and checkpoints the journal. The source stays paused
// until the checkpoint is done: a write landing after the export but before
// the truncation would otherwise be in neither the snapshot nor the journal.
func (m *Manager) Snapshot() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.source.Pause()
	defer m.source.Resume()

	snap, err := m.source.Export()
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	snap.CreatedAt = time.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	fileName := fmt.Sprintf("snapshot-%d.json", snap.CreatedAt.UnixNano())
	filePath := filepath.Join(m.snapshotDir, fileName)

	// Write to a temp file first so a crash mid-write never leaves a
	// half-written snapshot with a valid name.
	tmpPath := filePath + ".tmp"
	if err = os.WriteFile(tmpPath, data, 0640); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err = os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}

	log.Debug().Str("file", fileName).Int("tables", len(snap.Tables)).Msg("Snapshot written")

	if err = m.prune(); err != nil {
		log.Error().Err(err).Msg("Failed to prune old snapshots")
	}

	if m.checkpoint != nil {
		if err = m.checkpoint.Checkpoint(); err != nil {
			return fmt.Errorf("failed to checkpoint WAL after snapshot: %w", err)
		}
	}

	return nil
}

// prune removes the oldest snapshot files beyond maxSnapshotLimit.
func (m *Manager) prune() error {
	files, err := sortedSnapshotFiles(m.snapshotDir)
	if err != nil {
		return err
	}

	for len(files) > m.maxSnapshotLimit {
		oldest := files[0]
		if err = os.Remove(oldest); err != nil {
			return fmt.Errorf("failed to remove snapshot %s: %w", oldest, err)
		}
		files = files[1:]
	}
	return nil
}

// LoadLatest reads the newest snapshot under rootDir. Returns nil when no
// snapshot exists yet.
func LoadLatest(rootDir string) (*rowvault.Snapshot, error) {
	files, err := sortedSnapshotFiles(filepath.Join(rootDir, snapshotDirName))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	newest := files[len(files)-1]
	data, err := os.ReadFile(newest)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", newest, err)
	}

	var snap rowvault.Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", newest, err)
	}
	return &snap, nil
}

// sortedSnapshotFiles returns snapshot paths ordered oldest to newest. The
// file names embed nanosecond timestamps, so lexical order is creation order.
func sortedSnapshotFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, snapshotFileGlob))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
