package testutil

import (
	"fmt"
	"testing"
	"yorkgrades/lib/telemetry"
)

// SetupTelemetry initializes logging and any configured exporters for a test
// package, the returned function flushes them.
func SetupTelemetry(t testing.TB, name string) func() {
	return telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
}
