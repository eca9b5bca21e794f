package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesRunID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.WithField("component", "test").Info("hello")
	log.Debug("hidden")

	out := buf.String()
	for _, want := range []string{"run_id=", "component=test", "msg=hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("chatty", nil); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRunIDsDiffer(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if len(a) != 26 {
		t.Errorf("run id %q should have 26 characters", a)
	}
	if a == b {
		t.Errorf("run ids should differ, got %q twice", a)
	}
	if strings.ToUpper(a) != a {
		t.Errorf("run id %q should be upper case", a)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing to see")
}
