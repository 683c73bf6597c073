package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDirectiveError(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.DirectiveError("table-alignment", nil, errors.New("missing argument"))

	out := buf.String()
	for _, want := range []string{"directive ignored", "table-alignment", "missing argument"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.WarnLevel)

	l.Skipped("FrontPage", "unchanged")
	if buf.Len() != 0 {
		t.Errorf("debug message written at warn level: %q", buf.String())
	}

	l.PageError("FrontPage", errors.New("boom"))
	if !strings.Contains(buf.String(), "page error") {
		t.Errorf("expected error to be logged, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
