// Package logging builds the process logger. Logs go to a file under the
// data dir so they never interleave with CLI output or the TUI.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the process logger. Debug widens the level; an unwritable data
// dir falls back to a no-op logger rather than failing the command.
func New(dataDir string, debug bool) *zap.Logger {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dataDir, "linkdeck.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
