// Package debug provides opt-in diagnostic tracing for the ingestion
// pipeline and the geocoding chain. Tracing is off unless CELLTRAIL_DEBUG
// is set to a truthy value.
package debug

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	once    sync.Once
	enabled bool
)

// Enabled reports whether debug tracing is on. The environment is read
// once; flipping CELLTRAIL_DEBUG mid-process has no effect.
func Enabled() bool {
	once.Do(func() {
		switch strings.ToLower(os.Getenv("CELLTRAIL_DEBUG")) {
		case "1", "true", "yes", "on":
			enabled = true
		}
	})
	return enabled
}

// Output logs a formatted trace line when debugging is enabled.
func Output(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	log.Printf("[%s] %s", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Timing logs the duration of an operation when debugging is enabled.
// Use as: defer debug.Timing("resolve address")()
func Timing(operation string) func() {
	if !Enabled() {
		return func() {}
	}
	start := time.Now()
	Output("Starting: %s", operation)
	return func() {
		Output("Completed: %s (took %v)", operation, time.Since(start))
	}
}
