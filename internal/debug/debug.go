// Package debug provides conditional, timestamped progress logging for
// pipeline runs.
package debug

import (
	"fmt"
	"log"
	"time"
)

// Logf prints a timestamped line when debugging is enabled.
func Logf(enabled bool, format string, args ...any) {
	if enabled {
		log.Printf("[%s] %s", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
	}
}

// Timing logs the start of an operation and returns a function that logs its
// duration. Usage: defer debug.Timing(enabled, "merge meters")().
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}
	start := time.Now()
	Logf(enabled, "starting: %s", operation)
	return func() {
		Logf(enabled, "completed: %s (took %v)", operation, time.Since(start))
	}
}
