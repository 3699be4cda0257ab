package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// QuietLogs disables the global logger and runs the package's tests. Call
// it from TestMain.
func QuietLogs(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// CaptureLogs routes the global logger into a buffer at debug level for the
// rest of the test. Loggers must be obtained after the call.
func CaptureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return &buf
}
