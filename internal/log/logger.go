package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func SetupConsoleLogger() {
	SetupLogger(os.Stderr)
}

// SetupLogger routes the global logger through a console writer on the given output.
func SetupLogger(out io.Writer) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().
		Stack().
		Caller().
		Logger()
}

func SetLogLevel(logLevel string) error {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(logLevel)))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	return nil
}
