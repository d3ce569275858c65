// FILE: sensormerge/src/cmd/sensormerge/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Manages all user-facing output respecting quiet mode
type OutputHandler struct {
	quiet  bool
	mu     sync.RWMutex
	stdout io.Writer
	stderr io.Writer
}

// Global output handler instance
var output *OutputHandler

// Initializes the global output handler
func InitOutputHandler(quiet bool) {
	output = NewOutputHandler(quiet, os.Stdout, os.Stderr)
}

// Creates an output handler writing to the given streams
func NewOutputHandler(quiet bool, stdout, stderr io.Writer) *OutputHandler {
	return &OutputHandler{
		quiet:  quiet,
		stdout: stdout,
		stderr: stderr,
	}
}

// Writes to stdout if not in quiet mode
func (o *OutputHandler) Print(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.quiet {
		fmt.Fprintf(o.stdout, format, args...)
	}
}

// Writes to stderr if not in quiet mode
func (o *OutputHandler) Error(format string, args ...any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.quiet {
		fmt.Fprintf(o.stderr, format, args...)
	}
}

// Returns the current quiet mode status
func (o *OutputHandler) IsQuiet() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quiet
}

// Updates quiet mode
func (o *OutputHandler) SetQuiet(quiet bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.quiet = quiet
}

// Error writes through the global output handler
func Error(format string, args ...any) {
	if output != nil {
		output.Error(format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
