package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. It discards everything until InitLogger runs,
// which keeps tests quiet.
var Log = zerolog.Nop()

// InitLogger sets up Log: pretty console output in development, JSON otherwise.
func InitLogger(env string) {
	InitLoggerTo(env, os.Stdout)
}

func InitLoggerTo(env string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	if env == "development" {
		Log = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			With().
			Timestamp().
			Caller().
			Logger()
		return
	}

	Log = zerolog.New(out).
		With().
		Timestamp().
		Logger()
}
