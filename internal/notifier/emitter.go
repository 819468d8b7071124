package notifier

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Event is one row change as subscribers see it.
type Event struct {
	ID        string    `json:"id"`
	Table     string    `json:"table"`
	Row       int       `json:"row"`
	Column    string    `json:"column,omitempty"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Emit queues an event for broadcast. This is how consumers get notified of
// a row change. An event without an ID is assigned one.
func (m *Manager) Emit(e *Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.emitChan <- e
}

// broadcast writes the event to every connected subscriber.
func (m *Manager) broadcast(e *Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal change event")
		return
	}

	// Newline for message framing
	message := append(data, '\n')

	// no new clients while writing
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for client := range m.clients {
		// Non-blocking write with short timeout
		_ = client.SetWriteDeadline(time.Now().Add(100 * time.Millisecond))
		_, err = client.Write(message)
		if err != nil {
			_ = client.Close()
			delete(m.clients, client)
		}
	}
}
