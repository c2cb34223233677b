package obs

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	l := Logger()
	orig := l.Writer()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	t.Cleanup(func() {
		l.SetOutput(orig)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLogEventWritesJSONLine(t *testing.T) {
	buf := captureLog(t)

	Error("store failed", errors.New("conn refused"), map[string]any{"op": "list"})

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log is not valid JSON: %v", err)
	}
	if entry["level"] != "error" || entry["msg"] != "store failed" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["error"] != "conn refused" || entry["op"] != "list" {
		t.Fatalf("fields missing: %v", entry)
	}
}

func TestLogEventRespectsLevel(t *testing.T) {
	buf := captureLog(t)
	SetLevel(LevelWarn)

	Info("quiet", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	LogEvent(LevelWarn, "loud", nil)
	if !strings.Contains(buf.String(), `"loud"`) {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARNING": LevelWarn, "error": LevelError, "": LevelInfo, "bogus": LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}
