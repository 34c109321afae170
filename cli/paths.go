// paths.go - application path helpers
// Config and logs live under ~/.diffusion-console unless configured otherwise
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rodjjo/diffusion-expert-sub000/internal/config"
)

// ensureDir creates dir if needed, warning instead of failing.
func ensureDir(dir string) string {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create directory %s: %v", dir, err)
	}
	return dir
}

// logsDir returns the configured log directory (default ~/.diffusion-console/logs)
func logsDir(cfg *config.Config) string {
	return ensureDir(cfg.Logging.LogDir())
}

// configPath returns the explicit config path or the default one
func configPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(ensureDir(config.AppHome()), "config.yaml")
}
