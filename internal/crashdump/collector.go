// Package crashdump records unexpected panics as JSON reports in the state dir.
package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"
)

const (
	// shortIDLength is the length of the short ID suffix.
	shortIDLength = 8

	// panicNilStr is the string representation of panic(nil).
	panicNilStr = "panic(nil)"
)

// CrashInfo is a single crash report.
type CrashInfo struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Version    string      `json:"version"`
	Command    []string    `json:"command"`
	PanicValue string      `json:"panic_value"`
	StackTrace string      `json:"stack_trace"`
	Runtime    RuntimeInfo `json:"runtime"`
	WorkingDir string      `json:"working_dir,omitempty"`
}

// RuntimeInfo describes the process that crashed.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
}

// Collect builds a CrashInfo from a recovered panic value. Call it from the
// deferred function that recovered so the stack still shows the panic site.
func Collect(recovered any, version string, args []string) *CrashInfo {
	now := time.Now()
	panicValue := formatPanicValue(recovered)

	info := &CrashInfo{
		ID:         generateCrashID(now, panicValue),
		Timestamp:  now,
		Version:    version,
		Command:    args,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Runtime: RuntimeInfo{
			GOOS:         runtime.GOOS,
			GOARCH:       runtime.GOARCH,
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
		},
	}

	if wd, err := os.Getwd(); err == nil {
		info.WorkingDir = wd
	}

	return info
}

// formatPanicValue converts a recovered panic value to a string.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	// panic(nil) arrives as *runtime.PanicNilError
	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// generateCrashID returns crash-{timestamp}-{shortHash}.
func generateCrashID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}
