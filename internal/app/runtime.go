package app

import (
	"os"
	"sync"
)

const testModeEnv = "URBANERA_TEST_MODE"

var (
	testModeOnce sync.Once
	testMode     bool
)

// InTestMode reports whether the process should skip runtime side effects
// like opening listeners. Checked once; tests flip it via RefreshTestMode.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testMode = os.Getenv(testModeEnv) == "1"
	})
	return testMode
}

// RefreshTestMode re-reads the flag after the environment changed.
func RefreshTestMode() {
	testMode = os.Getenv(testModeEnv) == "1"
}
