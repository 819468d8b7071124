package main

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rowvault/rowvault-db/internal/app"
	"github.com/rowvault/rowvault-db/internal/config"
	"github.com/rowvault/rowvault-db/internal/engine"
	"github.com/rowvault/rowvault-db/internal/notifier"
	"github.com/rowvault/rowvault-db/internal/protocol"
	"github.com/rowvault/rowvault-db/internal/reaper"
	"github.com/rowvault/rowvault-db/internal/rowvault"
	"github.com/rowvault/rowvault-db/internal/server"
	"github.com/rowvault/rowvault-db/internal/storage"
	"github.com/rowvault/rowvault-db/internal/wal"
)

const (
	defaultServerCert = "server.crt"
	defaultServerKey  = "server.key"
)

func main() {
	application, err := initialize()
	if err != nil {
		panic(err)
	}

	if err = application.Run(context.Background()); err != nil {
		panic(err)
	}
}

func initialize() (*app.App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	dataDir, err := rowvault.GetRowvaultDir()
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(dataDir, 0750); err != nil {
		return nil, err
	}

	var deps []app.Dependency

	// create the WAL manager
	walManager, err := wal.New(&wal.Config{
		Path: dataDir,
	})
	if err != nil {
		return nil, err
	}

	changeNotifier, err := notifier.New(&notifier.Config{
		Port:    cfg.NotifierPort,
		Address: cfg.NotifierAddress,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, changeNotifier)

	// pick up the newest snapshot so the engine can restore on start
	snapshot, err := storage.LoadLatest(dataDir)
	if err != nil {
		return nil, err
	}

	// create the rowvault engine
	rowEngine, err := engine.New(&engine.Config{
		WAL:      walManager,
		Notifier: changeNotifier,
		Snapshot: snapshot,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, rowEngine)

	// create a disk storage manager
	diskStorage, err := storage.New(&storage.Config{
		RootDir:          dataDir,
		Source:           rowEngine,
		Checkpoint:       walManager,
		SnapshotTimer:    cfg.SnapshotTimer,
		MaxSnapshotLimit: cfg.MaxSnapshotLimit,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, diskStorage)

	// the reaper sweeps released and stale handle references
	handleReaper, err := reaper.New(&reaper.Config{
		Path:       dataDir,
		Registry:   rowEngine.Context(),
		GCInterval: cfg.GCInterval,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, handleReaper)

	// the protocol manager answers queries through checked row accessors
	protocolManager, err := protocol.New(&protocol.Config{
		Catalog: rowEngine,
	})
	if err != nil {
		return nil, err
	}

	serverCfg := &server.Config{
		Port:           cfg.ServerPort,
		Handler:        protocolManager,
		MaxConnections: cfg.MaxConnections,
		EnableTLS:      cfg.EnableTLS,
	}
	if cfg.EnableTLS {
		cert, certErr := tls.LoadX509KeyPair(
			dataDir+"/"+defaultServerCert, dataDir+"/"+defaultServerKey)
		if certErr != nil {
			return nil, certErr
		}
		serverCfg.Certificate = &cert
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return nil, err
	}
	deps = append(deps, srv)

	log.Info().Str("port", cfg.ServerPort).Msg("RowVault DB initialized")

	application, err := app.CreateApp(&app.Config{
		ServiceName: "RowVault DB",
		StopTimeout: 5 * time.Second,
	}, deps...)
	if err != nil {
		return nil, err
	}

	return application, nil
}
