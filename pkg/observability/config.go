// Package observability builds the structured logger, tracer and meter used by
// the command line tool, and instruments interning tables with lookup metrics.
package observability

import (
	"fmt"
	"log/slog"
	"strings"
)

const defaultServiceName = "integeriser"

// Config controls logger and telemetry construction.
type Config struct {
	// ServiceName is attached to every log record and to the telemetry resource.
	ServiceName string
	// ServiceVersion is the build version, omitted when empty.
	ServiceVersion string
	// LogLevel is the minimum level written by the logger.
	LogLevel slog.Level
	// LogJSON selects the JSON handler instead of the text handler.
	LogJSON bool

	// OTLPEndpoint is the gRPC collector address. Empty keeps telemetry in process.
	OTLPEndpoint string
	// OTLPInsecure disables TLS towards the collector.
	OTLPInsecure bool
	// OTLPHeaders are sent with every export request.
	OTLPHeaders map[string]string
}

// DefaultConfig returns text logging at info level.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		LogLevel:    slog.LevelInfo,
	}
}

// ParseOTLPHeaders parses a "key=value,key=value" header list. Pairs without
// a '=' are skipped; nil is returned when nothing remains.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	headers := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if len(headers) == 0 {
		return nil
	}

	return headers
}

// ParseLevel maps debug, info, warn or error (any case) to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", name, err)
	}

	return level, nil
}
