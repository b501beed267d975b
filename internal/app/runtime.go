package app

import (
	"os"
	"sync"
	"sync/atomic"
)

// TestModeEnv set to "1" silences access logging for test binaries.
const TestModeEnv = "YENEFARM_TEST_MODE"

var testMode struct {
	once sync.Once
	on   atomic.Bool
}

// InTestMode reports whether the process runs under the test helper package.
func InTestMode() bool {
	testMode.once.Do(RefreshTestMode)
	return testMode.on.Load()
}

// RefreshTestMode re-reads TestModeEnv after environment changes.
func RefreshTestMode() {
	testMode.on.Store(os.Getenv(TestModeEnv) == "1")
}
