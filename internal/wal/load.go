package wal

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
)

// Replay reads the journal from the start and feeds each entry to apply in
// order. Malformed lines are skipped; a torn final write after a crash should
// not block recovery of everything before it.
func (m *Manager) Replay(apply func(e *Entry) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := os.Open(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No WAL file exists yet, not an error
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			log.Warn().Err(err).Msg("Skipping malformed WAL entry")
			continue
		}

		if err := apply(&entry); err != nil {
			return err
		}
	}

	return scanner.Err()
}
