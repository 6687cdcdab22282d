// Package logging configures the disk logger shared by the transport and
// the document sync routine.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTruncate caps logged payload bodies. Responses can be large;
// the log keeps a prefix and drops the rest.
const DefaultTruncate = 2048

// New opens (or creates) the log file at path and returns a logger writing
// to it. The returned closer owns the file handle.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(file).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
	return logger, file, nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Truncate shortens a payload body for logging. Zero or negative limits
// fall back to DefaultTruncate. The cut is silent apart from the marker.
func Truncate(data []byte, limit int) string {
	if limit <= 0 {
		limit = DefaultTruncate
	}
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "...(truncated)"
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
