package reaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	reaperFile = ".reaper.gc.log"
)

// registry is the handle registry the reaper sweeps: released and stale
// native references waiting to be dropped.
type registry interface {
	Sweep() int
	Live() int
}

type Reaper struct {
	filePath string
	registry registry

	mutex        sync.Mutex
	reapInterval time.Duration

	procCtx context.Context
	cancel  context.CancelFunc
}

type Config struct {
	Path       string
	Registry   registry
	GCInterval int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Path == "" {
		errGrp = append(errGrp, errors.New("directory path cannot be empty"))
	}
	if c.Registry == nil {
		errGrp = append(errGrp, errors.New("registry cannot be nil"))
	}
	if c.GCInterval <= 0 {
		errGrp = append(errGrp, errors.New("GCInterval must be greater than 0"))
	}
	return errors.Join(errGrp...)
}

// New creates a new Reaper.
func New(cfg *Config) (*Reaper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		filePath:     filepath.Join(cfg.Path, reaperFile),
		registry:     cfg.Registry,
		reapInterval: time.Duration(cfg.GCInterval) * time.Second,
		procCtx:      ctx,
		cancel:       cancel,
	}, nil
}

func (r *Reaper) Start() error {
	if err := r.verifyLogFile(); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(r.reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.procCtx.Done():
				return
			case <-ticker.C:
				r.reap()
			}
		}
	}()
	return nil
}

func (r *Reaper) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}

	// Wait for an in-flight reap to finish
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return nil
}

func (r *Reaper) Name() string {
	return "Handle Reaper"
}

// verifyLogFile checks if the log file exists, and creates it if it doesn't.
func (r *Reaper) verifyLogFile() error {
	_, err := os.Stat(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}

		file, fileErr := os.Create(r.filePath)
		if fileErr != nil {
			return fileErr
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)
		return nil
	}
	return nil
}

func (r *Reaper) reap() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	swept := r.registry.Sweep()
	if swept == 0 {
		return
	}

	live := r.registry.Live()
	log.Debug().Int("swept", swept).Int("live", live).Msg("Reaped handle references")
	r.write(&reapRecord{Swept: swept, Live: live, Timestamp: time.Now()})
}
