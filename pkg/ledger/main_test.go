package ledger

import (
	"testing"

	"github.com/arthur-debert/aitk/pkg/testutil"
)

func TestMain(m *testing.M) {
	testutil.QuietLogs(m)
}
