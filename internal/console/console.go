// Provides prefixed, colored status output for the CLI.
//
// Status lines mirror the tool's long-standing console format: a colored
// severity tag followed by a plain message. Errors and warnings go to
// stderr, everything else to stdout. Output is gated by a single ordered
// verbosity [Level] set once from the CLI flags; errors and warnings
// always print. Structured diagnostics belong in slog, not here.
package console

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

// Output verbosity for status lines, from least to most talkative.
type Level int32

const (
	LevelQuiet   Level = iota // Errors and warnings only.
	LevelNormal               // Success and informational lines too.
	LevelVerbose              // Debug lines too.
	LevelDebug                // Everything, and the slog level drops to debug.
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelNormal))
}

// Sets the output verbosity. Safe to call from any goroutine.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// Returns the current output verbosity.
func Verbosity() Level {
	return Level(level.Load())
}

func enabled(min Level) bool {
	return Verbosity() >= min
}

var (
	errorTag   = color.New(color.FgRed).Sprint("[ERROR]")
	warningTag = color.New(color.FgYellow).Sprint("[WARNING]")
	successTag = color.New(color.FgGreen).Sprint("[SUCCESS]")
	infoTag    = color.New(color.FgBlue).Sprint("[INFO]")
	debugTag   = color.New(color.FgCyan).Sprint("[DEBUG]")
)

// Prints an error status line to stderr.
func Error(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorTag, fmt.Sprintf(format, args...))
}

// Prints a warning status line to stderr.
func Warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warningTag, fmt.Sprintf(format, args...))
}

// Prints a success status line to stdout unless quiet.
func Success(format string, args ...any) {
	if !enabled(LevelNormal) {
		return
	}
	fmt.Printf("%s %s\n", successTag, fmt.Sprintf(format, args...))
}

// Prints an informational status line to stdout unless quiet.
func Info(format string, args ...any) {
	if !enabled(LevelNormal) {
		return
	}
	fmt.Printf("%s %s\n", infoTag, fmt.Sprintf(format, args...))
}

// Prints a debug status line to stdout when verbose or debug output is
// enabled.
func Debug(format string, args ...any) {
	if !enabled(LevelVerbose) {
		return
	}
	fmt.Printf("%s %s\n", debugTag, fmt.Sprintf(format, args...))
}
