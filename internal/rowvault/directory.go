package rowvault

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	rowvaultDir = ".rowvault"
)

// GetRowvaultDir returns the path to the RowVault directory in the user's home directory.
func GetRowvaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, rowvaultDir), nil
}
