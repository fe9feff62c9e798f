package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level       int
		wantError   bool
		wantWarning bool
		wantState   bool
		wantClosing bool
	}{
		{LevelSilent, false, false, false, false},
		{LevelError, true, false, false, true},
		{LevelWarning, true, true, false, true},
		{LevelVerbose, true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level)
			l.LogStateChange("Scanning")
			l.LogWarning("1:1: Lexical Error: INVALID SYMBOL: \"&\"")
			l.LogError(errors.New("2:3: Error: program must end with period"))
			l.LogFinished()

			out := buf.String()
			check := func(what string, want bool, needle string) {
				t.Helper()
				if got := strings.Contains(out, needle); got != want {
					t.Errorf("%s: expected present=%v in %q", what, want, out)
				}
			}
			check("error", tt.wantError, "program must end with period")
			check("warning", tt.wantWarning, "INVALID SYMBOL")
			check("state", tt.wantState, "Scanning...")
			check("closing", tt.wantClosing, "Compilation Failed (1 errors, 1 warnings)")

			if l.ErrorCount != 1 {
				t.Errorf("expected ErrorCount 1, got %d", l.ErrorCount)
			}
		})
	}
}

func TestSuccessMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)
	l.LogFinished()
	if !strings.Contains(buf.String(), "Compilation Succeeded (0 errors, 0 warnings)") {
		t.Errorf("unexpected closing line: %q", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.LogError(errors.New("ignored"))
	l.LogWarning("ignored")
	l.LogStateChange("ignored")
	l.LogFinished()
	if l.Warnings() != nil {
		t.Errorf("nil logger should have no warnings")
	}
}

func TestParseLevel(t *testing.T) {
	for i, name := range []string{"silent", "ERROR", "Warning", "verbose"} {
		got, err := ParseLevel(name)
		if err != nil || got != i {
			t.Errorf("ParseLevel(%q): expected %d, got %d (%v)", name, i, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("ParseLevel(loud): expected an error")
	}
}
