package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	debugEnabled bool
	debugMu      sync.Mutex
	debugFile    *os.File
)

func EnableDebugLogging(enabled bool) {
	debugEnabled = enabled
}

// DebugLogf appends a timestamped line to the debug log. The terminal
// is owned by the TUI, so diagnostics go to a file instead of stderr.
func DebugLogf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugFile == nil {
		path := filepath.Join(os.TempDir(), "blockfall-debug.log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		debugFile = file
	}
	timestamp := time.Now().Format(time.RFC3339)
	message := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	_, _ = fmt.Fprintf(debugFile, "%s %s\n", timestamp, message)
}
