package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level LogLevel, format LogFormat) *Logger {
	l := New(Config{Level: level, Format: format, Output: buf, Component: "test"})
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, WARN, JSONFormat)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines with WARN level, got %d", len(lines))
	}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", i+1, err)
		}
	}
	if l.Enabled(INFO) || !l.Enabled(ERROR) {
		t.Error("Enabled does not match the configured level")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO, JSONFormat)

	l.Info("figure saved", map[string]interface{}{
		"path":   "out/chart.png",
		"series": 2,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Level != "INFO" || entry.Message != "figure saved" || entry.Component != "test" {
		t.Errorf("Unexpected entry %+v", entry)
	}
	if entry.Timestamp != "2024-05-01T12:00:00Z" {
		t.Errorf("Expected fixed timestamp, got %s", entry.Timestamp)
	}
	if entry.Fields["series"] != float64(2) {
		t.Errorf("Expected field series=2, got %v", entry.Fields["series"])
	}
	if !strings.HasPrefix(entry.Caller, "logger_test.go:") {
		t.Errorf("Expected caller in logger_test.go, got %q", entry.Caller)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO, TextFormat)

	l.Error("save failed", errors.New("permission denied"), map[string]interface{}{
		"path":   "/root/x.png",
		"format": "png",
	})

	out := buf.String()
	want := "[2024-05-01T12:00:00Z] ERROR [test] save failed format=png path=/root/x.png error=\"permission denied\""
	if !strings.HasPrefix(out, want) {
		t.Errorf("Expected output to start with %q, got %q", want, out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, INFO, JSONFormat)

	base.WithComponent("gochart").Info("rendered")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Component != "gochart" {
		t.Errorf("Expected component 'gochart', got %s", entry.Component)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped", errors.New("x"))
	if l.Enabled(ERROR) {
		t.Error("Expected discard logger to be disabled")
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(newTestLogger(&buf, INFO, JSONFormat))
	Info("global info message")
	Warn("global warn message")
	Debug("filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Failed to parse JSON line: %v", err)
	}
	if entry.Level != "WARN" || entry.Message != "global warn message" {
		t.Errorf("Second line incorrect: level=%s, message=%s", entry.Level, entry.Message)
	}
	if !strings.HasPrefix(entry.Caller, "logger_test.go:") {
		t.Errorf("Expected caller in logger_test.go, got %q", entry.Caller)
	}
}

func TestConfigure(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	var buf bytes.Buffer
	SetGlobalLogger(newTestLogger(&buf, INFO, JSONFormat))

	if err := Configure("debug", "text"); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	Debug("now visible")
	if !strings.Contains(buf.String(), "DEBUG [test] now visible") {
		t.Errorf("Expected text debug line, got %q", buf.String())
	}

	if err := Configure("verbose", ""); err == nil {
		t.Error("Expected error for unknown level")
	}
	if err := Configure("", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"DEBUG", DEBUG, false},
		{"info", INFO, false},
		{"Warning", WARN, false},
		{" error ", ERROR, false},
		{"fatal", FATAL, false},
		{"loud", INFO, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q): expected %v (err %v), got %v (%v)", tt.in, tt.want, tt.wantErr, got, err)
		}
	}

	if f, err := ParseFormat("JSON"); err != nil || f != JSONFormat {
		t.Errorf("Expected JSONFormat, got %v (%v)", f, err)
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, test := range tests {
		if test.level.String() != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, test.level.String())
		}
	}
}

func BenchmarkTextLogging(b *testing.B) {
	var buf bytes.Buffer
	l := New(Config{Level: INFO, Format: TextFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Info("benchmark message", map[string]interface{}{"iteration": i})
	}
}
