package logging

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Logger collects and displays the output of a compile. Methods on a nil
// Logger do nothing.
type Logger struct {
	ErrorCount int // Total encountered errors
	LogLevel   int

	// warnings are displayed together at the end of the compile
	warnings []string

	// prevUpdate is the time of the last state change
	prevUpdate time.Time

	out io.Writer
}

// Enumeration of the different log levels
const (
	LevelSilent  = iota // no output at all
	LevelError          // only errors and the closing message
	LevelWarning        // errors, warnings and the closing message
	LevelVerbose        // everything, including stage timings
)

var levelNames = []string{"silent", "error", "warning", "verbose"}

// ParseLevel converts a level name to its value.
func ParseLevel(name string) (int, error) {
	for i, n := range levelNames {
		if strings.EqualFold(name, n) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q (want one of %s)", name, strings.Join(levelNames, ", "))
}

// LevelName is the inverse of ParseLevel.
func LevelName(level int) string {
	if level >= 0 && level < len(levelNames) {
		return levelNames[level]
	}
	return fmt.Sprintf("level(%d)", level)
}

func New(out io.Writer, level int) *Logger {
	return &Logger{LogLevel: level, out: out, prevUpdate: time.Now()}
}

// LogError displays a compilation error immediately.
func (l *Logger) LogError(err error) {
	if l == nil {
		return
	}
	l.ErrorCount++

	if l.LogLevel > LevelSilent {
		fmt.Fprintln(l.out, err)
	}
}

// LogWarning records a non-fatal diagnostic to be shown by LogFinished.
func (l *Logger) LogWarning(msg string) {
	if l == nil {
		return
	}
	l.warnings = append(l.warnings, msg)
}

// LogStateChange reports the start of a compile stage along with the time
// spent in the previous one.
func (l *Logger) LogStateChange(state string) {
	if l == nil {
		return
	}
	if l.LogLevel == LevelVerbose {
		fmt.Fprintf(l.out, "%s... (+%s)\n", state, time.Since(l.prevUpdate).Round(time.Microsecond))
	}
	l.prevUpdate = time.Now()
}

// LogFinished flushes warnings and prints the closing status line. It should
// be called once, whether or not the compile succeeded.
func (l *Logger) LogFinished() {
	if l == nil {
		return
	}
	if l.LogLevel > LevelError {
		for _, w := range l.warnings {
			fmt.Fprintln(l.out, w)
		}
	}

	if l.LogLevel > LevelSilent {
		status := "Compilation Succeeded"
		if l.ErrorCount > 0 {
			status = "Compilation Failed"
		}
		fmt.Fprintf(l.out, "%s (%d errors, %d warnings)\n", status, l.ErrorCount, len(l.warnings))
	}
}

// Warnings returns the recorded warnings.
func (l *Logger) Warnings() []string {
	if l == nil {
		return nil
	}
	return l.warnings
}
