package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

type logRecord struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	Metric string `json:"metric"`
	Rows   int    `json:"rows"`
}

func swapLogger(t *testing.T, l *slog.Logger) {
	t.Helper()
	prev := Logger
	Logger = l
	t.Cleanup(func() { Logger = prev })
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	swapLogger(t, slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	tests := []struct {
		fn    func(msg string, args ...any)
		level string
	}{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("rows imported", "metric", "Collaboration_hours", "rows", 42)

			var rec logRecord
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("unmarshal log output: %v", err)
			}
			if rec.Level != tt.level {
				t.Errorf("level = %q, want %q", rec.Level, tt.level)
			}
			if rec.Msg != "rows imported" {
				t.Errorf("msg = %q, want %q", rec.Msg, "rows imported")
			}
			if rec.Metric != "Collaboration_hours" || rec.Rows != 42 {
				t.Errorf("attrs = (%q, %d), want (%q, %d)", rec.Metric, rec.Rows, "Collaboration_hours", 42)
			}
		})
	}
}

func TestDefaultLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	swapLogger(t, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	defer SetLevel(slog.LevelInfo)

	SetLevel(slog.LevelInfo)
	Debug("groups suppressed")
	if buf.Len() != 0 {
		t.Errorf("debug record emitted at info level: %q", buf.String())
	}

	SetLevel(slog.LevelDebug)
	Debug("groups suppressed")
	if buf.Len() == 0 {
		t.Error("debug record missing at debug level")
	}
}

func TestDefaultLogger(t *testing.T) {
	if Logger == nil {
		t.Error("Logger should be initialized")
	}
}
