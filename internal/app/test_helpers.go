package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/shipgrid/internal/config"
	"github.com/specialistvlad/shipgrid/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Logs are
// printed at the end of the test when SHIPGRID_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg Config, loader config.Loader, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(logBuffer, validated, loader, opts...)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("SHIPGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
