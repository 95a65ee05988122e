package api

import (
	"os"
	"testing"

	"github.com/tabsyhq/tabsy-api/configs"
)

// TestMain initializes the config values the handlers read. Outside
// LoadConfig() (which main calls but tests do not), OCR_TIMEOUT is
// zero and recognize would wrap every OCR call in an already-expired
// context.
func TestMain(m *testing.M) {
	configs.OCR_TIMEOUT = 45
	os.Exit(m.Run())
}
