package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Dev gets debug level with the console
// writer; everything else emits info-level JSON lines.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var l zerolog.Logger
	if env == "dev" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
			Level(zerolog.DebugLevel)
	} else {
		l = zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	}
	return l.With().Timestamp().Logger()
}
