package cards_test

import (
	"io"
	"testing"

	"github.com/konstantinfoerster/card-printings-go/internal/log"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	log.SetupLogger(io.Discard)

	goleak.VerifyTestMain(m)
}
