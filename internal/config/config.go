package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rowvault/rowvault-db/internal/rowvault"
)

const (
	configFileName = "rowvault.conf"
)

type Config struct {
	ServerAddress  string
	ServerPort     string
	MaxConnections int
	EnableTLS      bool

	NotifierAddress string
	NotifierPort    int

	SnapshotTimer    int
	MaxSnapshotLimit int
	GCInterval       int
	Debug            bool
}

// Default returns the configuration used when no conf file is installed.
func Default() *Config {
	return &Config{
		ServerAddress:    "127.0.0.1",
		ServerPort:       "9443",
		MaxConnections:   100,
		NotifierAddress:  "127.0.0.1",
		NotifierPort:     32496,
		SnapshotTimer:    300,
		MaxSnapshotLimit: 3,
		GCInterval:       30,
	}
}

// NewConfig reads rowvault.conf from the RowVault directory. A missing file
// is not an error: the defaults apply.
func NewConfig() (*Config, error) {
	rowvaultDir, err := rowvault.GetRowvaultDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get RowVault directory: %w", err)
	}

	config := Default()

	configPath := filepath.Join(rowvaultDir, configFileName)
	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "server_address":
			config.ServerAddress = value
		case "server_port":
			config.ServerPort = value
		case "max_connections":
			config.MaxConnections, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid max connections value: %w", err)
			}
		case "enable_tls":
			config.EnableTLS = value == "true"
		case "notifier_address":
			config.NotifierAddress = value
		case "notifier_port":
			config.NotifierPort, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid notifier port value: %w", err)
			}
		case "snapshot_timer":
			config.SnapshotTimer, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid snapshot timer value: %w", err)
			}
		case "max_snapshot_limit":
			config.MaxSnapshotLimit, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid snapshot limit value: %w", err)
			}
		case "gc_interval":
			config.GCInterval, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid gc interval value: %w", err)
			}
		case "debug":
			config.Debug = value == "true"
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return config, nil
}
