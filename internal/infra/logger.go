package infra

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages outside infra can accept a logger
// without importing the third-party module directly.
type Logger = zerolog.Logger

// NewLogger returns the service logger. Development and CLI runs write
// human-readable lines to stderr; everything else writes JSON to stdout.
func NewLogger(appEnv, level string) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond

	var out io.Writer = os.Stdout
	if consoleEnv(appEnv) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).
		Level(LogLevel(appEnv, level)).
		With().
		Timestamp().
		Str("service", "promptline").
		Logger()
}

// LogLevel resolves the level for appEnv. An explicit, parseable level wins;
// development defaults to debug, the CLI to warn and everything else to info.
func LogLevel(appEnv, level string) zerolog.Level {
	if level = strings.ToLower(strings.TrimSpace(level)); level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil {
			return lvl
		}
	}
	switch appEnv {
	case "development":
		return zerolog.DebugLevel
	case "cli":
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func consoleEnv(appEnv string) bool {
	return appEnv == "development" || appEnv == "cli"
}
