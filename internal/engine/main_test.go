package engine_test

import (
	"testing"

	"go.uber.org/goleak"
)

// Every countdown goroutine must be gone once its task is stopped.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
