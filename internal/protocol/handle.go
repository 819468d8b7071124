package protocol

import (
	"net"

	"github.com/rs/zerolog/log"
)

// Handle implements the server.handler interface, allowing the protocol
// manager to respond to incoming connections.
func (m *Manager) Handle(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing connection")
		}
	}()

	buf, err := m.readConn(conn)
	if err != nil {
		log.Warn().Err(err).Msg("Read error")
		return
	}

	response, err := m.RunOperation(buf)
	if err != nil {
		if _, writeErr := conn.Write([]byte("ERROR: " + err.Error())); writeErr != nil {
			log.Warn().Err(writeErr).Msg("Failed to write error response")
		}
		return
	}

	if _, err = conn.Write(response); err != nil {
		log.Warn().Err(err).Msg("Error writing response")
	}
}

// every incoming connection must be read; create a buffer to read the connection
func (m *Manager) readConn(conn net.Conn) ([]byte, error) {
	buf := make([]byte, m.maxBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// RunOperation decodes one query and dispatches it.
func (m *Manager) RunOperation(buf []byte) ([]byte, error) {
	msgType, queryBytes, decodeErr := Decode(buf)
	if decodeErr != nil {
		return nil, decodeErr
	}

	if len(queryBytes) == 0 {
		return nil, errEmptyQuery
	}

	var response []byte

	switch msgType {
	case Create:
		m.rwMutex.Lock()
		err := m.create(queryBytes)
		m.rwMutex.Unlock()
		if err != nil {
			return nil, err
		}
		response = []byte("Table created successfully")
	case Insert:
		m.rwMutex.Lock()
		result, insertErr := m.insert(queryBytes)
		m.rwMutex.Unlock()
		if insertErr != nil {
			return nil, insertErr
		}
		response = result
	case Write:
		m.rwMutex.Lock()
		writeErr := m.write(queryBytes)
		m.rwMutex.Unlock()
		if writeErr != nil {
			return nil, writeErr
		}
		response = []byte("OK")
	case Read:
		m.rwMutex.RLock()
		result, readErr := m.read(queryBytes)
		m.rwMutex.RUnlock()
		if readErr != nil {
			return nil, readErr
		}
		response = result
	case Delete:
		m.rwMutex.Lock()
		deleteErr := m.delete(queryBytes)
		m.rwMutex.Unlock()
		if deleteErr != nil {
			return nil, deleteErr
		}
		response = []byte("OK")
	case Unknown:
		return nil, ErrUnknown
	}

	return response, nil
}
