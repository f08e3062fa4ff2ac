package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/cicd-demo-api/internal/platform/timeutil"
)

// captureLogOutput captures the log lines emitted by logFn.
func captureLogOutput(t *testing.T, logFn func(*zap.Logger)) []map[string]any {
	t.Helper()

	resetLoggerForTest()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	origStderr := os.Stderr
	os.Stdout = w
	os.Stderr = w
	defer func() {
		os.Stdout = origStdout
		os.Stderr = origStderr
	}()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close writer: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("failed to unmarshal log JSON %q: %v", line, err)
		}
		entries = append(entries, payload)
	}
	return entries
}

// resetLoggerForTest clears the singleton state so tests can capture fresh log output.
func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	loggerErr = nil
}

func restoreLevel(t *testing.T) {
	t.Helper()
	prev := Level()
	t.Cleanup(func() { level.SetLevel(prev) })
}

func TestLoggerStructuredOutput(t *testing.T) {
	entries := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("server listening", zap.String("addr", ":3000"))
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	payload := entries[0]

	if got := payload["severity"]; got != "INFO" {
		t.Fatalf("expected severity INFO, got %v", got)
	}
	if _, exists := payload["level"]; exists {
		t.Fatal("did not expect level field")
	}
	if msg := payload["message"]; msg != "server listening" {
		t.Fatalf("expected message 'server listening', got %v", msg)
	}
	if addr := payload["addr"]; addr != ":3000" {
		t.Fatalf("expected addr ':3000', got %v", addr)
	}
	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp string, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(timeutil.RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp is not RFC3339Micros: %v", err)
	}
	if _, ok := payload["caller"]; !ok {
		t.Fatal("expected caller field")
	}
}

func TestEncodeSeverityMapping(t *testing.T) {
	tests := []struct {
		level    zapcore.Level
		expected string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
		{zapcore.Level(42), "DEFAULT"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			enc := &captureArrayEncoder{}
			encodeSeverity(tt.level, enc)
			if len(enc.values) != 1 || enc.values[0] != tt.expected {
				t.Fatalf("expected %q, got %v", tt.expected, enc.values)
			}
		})
	}
}

func TestEncodeTimeMicrosFormatsCorrectly(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"UTC with microseconds", time.Date(2024, 6, 15, 10, 30, 45, 123456000, time.UTC), "2024-06-15T10:30:45.123456Z"},
		{"non-UTC converts to UTC", time.Date(2024, 6, 15, 12, 0, 0, 500000000, time.FixedZone("EST", -5*60*60)), "2024-06-15T17:00:00.500000Z"},
		{"sub-microsecond truncates", time.Date(2024, 3, 20, 8, 15, 30, 999999999, time.UTC), "2024-03-20T08:15:30.999999Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &captureArrayEncoder{}
			encodeTimeMicros(tt.input, enc)
			if len(enc.values) != 1 || enc.values[0] != tt.expected {
				t.Fatalf("expected %q, got %v", tt.expected, enc.values)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	restoreLevel(t)

	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if err := SetLevel(tt.input); err != nil {
				t.Fatalf("SetLevel(%q): %v", tt.input, err)
			}
			if Level() != tt.want {
				t.Fatalf("expected level %v, got %v", tt.want, Level())
			}
		})
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	restoreLevel(t)
	if err := SetLevel("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	restoreLevel(t)
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	entries := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("dropped")
		l.Warn("kept")
	})
	if len(entries) != 1 || entries[0]["message"] != "kept" {
		t.Fatalf("expected only the warning entry, got %v", entries)
	}
}

func TestDebugLevelNotLoggedByDefault(t *testing.T) {
	restoreLevel(t)
	level.SetLevel(zapcore.InfoLevel)
	entries := captureLogOutput(t, func(l *zap.Logger) {
		l.Debug("hidden")
		l.Error("visible")
	})
	if len(entries) != 1 || entries[0]["severity"] != "ERROR" {
		t.Fatalf("expected only the error entry, got %v", entries)
	}
}

func TestSyncAndErr(t *testing.T) {
	resetLoggerForTest()
	if err := Err(); err != nil {
		t.Fatalf("expected nil init error, got %v", err)
	}
	// Sync on stdout may return EINVAL/ENOTTY depending on the platform.
	_ = Sync()
}

func TestLoggerConcurrentAccess(t *testing.T) {
	resetLoggerForTest()

	var wg sync.WaitGroup
	results := make(chan *zap.Logger, 100)
	for range 100 {
		wg.Go(func() {
			results <- Logger()
		})
	}
	wg.Wait()
	close(results)

	var first *zap.Logger
	for logger := range results {
		if first == nil {
			first = logger
		} else if logger != first {
			t.Fatal("concurrent Logger() calls returned different instances")
		}
	}
}

type captureArrayEncoder struct {
	values []string
}

func (c *captureArrayEncoder) AppendBool(bool)             {}
func (c *captureArrayEncoder) AppendByteString([]byte)     {}
func (c *captureArrayEncoder) AppendComplex128(complex128) {}
func (c *captureArrayEncoder) AppendComplex64(complex64)   {}
func (c *captureArrayEncoder) AppendFloat64(float64)       {}
func (c *captureArrayEncoder) AppendFloat32(float32)       {}
func (c *captureArrayEncoder) AppendInt(int)               {}
func (c *captureArrayEncoder) AppendInt64(int64)           {}
func (c *captureArrayEncoder) AppendInt32(int32)           {}
func (c *captureArrayEncoder) AppendInt16(int16)           {}
func (c *captureArrayEncoder) AppendInt8(int8)             {}
func (c *captureArrayEncoder) AppendString(s string)       { c.values = append(c.values, s) }
func (c *captureArrayEncoder) AppendUint(uint)             {}
func (c *captureArrayEncoder) AppendUint64(uint64)         {}
func (c *captureArrayEncoder) AppendUint32(uint32)         {}
func (c *captureArrayEncoder) AppendUint16(uint16)         {}
func (c *captureArrayEncoder) AppendUint8(uint8)           {}
func (c *captureArrayEncoder) AppendUintptr(uintptr)       {}
