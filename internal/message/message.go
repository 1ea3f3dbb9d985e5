// Package message prints user-facing diagnostics to stderr.
package message

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	noColor   bool
	mutex     sync.RWMutex
	outWriter io.Writer = os.Stderr

	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// SetNoColor enables/disables colored output
func SetNoColor(nc bool) {
	mutex.Lock()
	defer mutex.Unlock()
	noColor = nc
	color.NoColor = nc
}

// SetOutput changes the output writer (useful for testing)
func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	outWriter = w
}

// Output returns the current writer.
func Output() io.Writer {
	mutex.RLock()
	defer mutex.RUnlock()
	return outWriter
}

func printf(c *color.Color, prefix, format string, args ...interface{}) {
	mutex.RLock()
	defer mutex.RUnlock()

	// Diagnostics are one line each.
	msg := strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", " ")
	if noColor {
		fmt.Fprintf(outWriter, "%s %s\n", prefix, msg)
		return
	}
	fmt.Fprintf(outWriter, "%s %s\n", c.Sprint(prefix), msg)
}

// Error prints a fatal diagnostic line.
func Error(format string, args ...interface{}) {
	printf(errorColor, "Error:", format, args...)
}

// Warning prints a warning line.
func Warning(format string, args ...interface{}) {
	printf(warningColor, "Warning:", format, args...)
}
