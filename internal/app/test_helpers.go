package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/selfreg/internal/registry"
	"github.com/specialistvlad/selfreg/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Logs and
// output go to the returned buffer; set SELFREG_TEST_LOGS=true to dump it.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	buf := &testutil.SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	testApp := NewApp(buf, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("SELFREG_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})

	return testApp, buf
}
