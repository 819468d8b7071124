package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rowvault/rowvault-db/internal/core"
	"github.com/rowvault/rowvault-db/internal/handle"
)

//go:generate mockgen -destination=manager_mock.go -package=protocol -source=manager.go

// catalog is the engine surface the protocol needs: table resolution and the
// handle context rows are registered with.
type catalog interface {
	CreateTable(name string, cols []core.Column) (*core.Table, error)
	Table(name string) (*core.Table, error)
	Context() *handle.Context
}

type Manager struct {
	rwMutex       sync.RWMutex
	catalog       catalog
	maxBufferSize int
}

type Config struct {
	Catalog       catalog
	MaxBufferSize int
}

func (c *Config) validate() error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	return nil
}

// New creates a new protocol manager
func New(cfg *Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxBufferSize := cfg.MaxBufferSize
	if maxBufferSize <= 0 {
		maxBufferSize = 4096
	}

	return &Manager{
		catalog:       cfg.Catalog,
		maxBufferSize: maxBufferSize,
	}, nil
}

// checkedRow resolves a checked accessor for a table and row index. Every
// client-facing row operation goes through this path so that malformed
// requests fail predictably instead of corrupting cells.
func (m *Manager) checkedRow(tableName string, index int) (*handle.CheckedRow, error) {
	table, err := m.catalog.Table(tableName)
	if err != nil {
		return nil, err
	}
	return handle.Get(m.catalog.Context(), table, index)
}

// fields splits a query into key=value pairs.
func fields(input string) (map[string]string, error) {
	parts := strings.Fields(input)
	out := make(map[string]string, len(parts))
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, newError(ErrInvalidFormat, "expected key=value, got: %s", part)
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}

func requireField(params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", newError(ErrMissingKey, "%s", key)
	}
	return v, nil
}

func requireIntField(params map[string]string, key string) (int, error) {
	v, err := requireField(params, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, newError(ErrInvalidFormat, "%s must be a number, received %s", key, v)
	}
	if n < 0 {
		return 0, newError(ErrInvalidFormat, "%s must not be negative, received %d", key, n)
	}
	return n, nil
}
