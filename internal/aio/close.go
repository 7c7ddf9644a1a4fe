package aio

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Close closes c and logs a failure instead of returning it.
func Close(c io.Closer) {
	if c == nil {
		return
	}

	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close resource")
	}
}

// CloseWithErr closes c and joins a close failure into err.
func CloseWithErr(c io.Closer, err *error) {
	cErr := c.Close()
	if cErr == nil {
		return
	}

	// report close errors
	if *err == nil {
		*err = cErr
	} else {
		*err = errors.Wrap(*err, cErr.Error())
	}
}
