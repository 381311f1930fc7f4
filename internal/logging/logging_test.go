package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// captureLogOutput redirects the global logger to a JSON buffer at debug
// level while f runs.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f()

	defaultLogger = oldLogger
	return buf.String()
}

func decode(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		format    Format
		logDebug  bool
		wantJSON  bool
		wantEmpty bool
	}{
		{"json info drops debug", LevelInfo, FormatJSON, true, true, true},
		{"json debug", LevelDebug, FormatJSON, true, true, false},
		{"text info", LevelInfo, FormatText, false, false, false},
		{"error drops info", LevelError, FormatText, false, false, true},
	}
	defer InitLogger(LevelInfo, FormatText)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Init(&buf, tt.level, tt.format)

			if tt.logDebug {
				Debug("hello", "k", "v")
			} else {
				Info("hello", "k", "v")
			}

			out := buf.String()
			if tt.wantEmpty {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if tt.wantJSON {
				m := decode(t, out)
				if m["msg"] != "hello" || m["k"] != "v" {
					t.Errorf("unexpected record %v", m)
				}
				ts, _ := m["time"].(string)
				if _, err := time.Parse(time.RFC3339, ts); err != nil {
					t.Errorf("time %q is not RFC3339: %v", ts, err)
				}
			} else if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "k=v") {
				t.Errorf("unexpected text output %q", out)
			}
		})
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{"debug": LevelDebug, "INFO": LevelInfo, "": LevelInfo, "warning": LevelWarn, "error": LevelError}
	for in, want := range levels {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}

	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRequestID() = %q is not a UUID: %v", id, err)
	}
	if NewRequestID() == id {
		t.Error("NewRequestID should not repeat")
	}

	ctx := WithRequestID(context.Background(), id)
	if got := GetRequestID(ctx); got != id {
		t.Errorf("GetRequestID = %q, want %q", got, id)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID on empty context = %q", got)
	}

	out := captureLogOutput(func() {
		InfoContext(ctx, "with id")
	})
	if m := decode(t, out); m["request_id"] != id {
		t.Errorf("request_id = %v, want %s", m["request_id"], id)
	}
}

func TestCorpusLoaded(t *testing.T) {
	out := captureLogOutput(func() {
		CorpusLoaded(context.Background(), "sqlite", 66, 31102, 1500*time.Millisecond, "path", "kjv.db")
	})
	m := decode(t, out)
	if m["msg"] != "corpus_loaded" || m["source"] != "sqlite" || m["path"] != "kjv.db" {
		t.Errorf("unexpected record %v", m)
	}
	if m["verses"] != float64(31102) || m["books"] != float64(66) || m["duration_ms"] != float64(1500) {
		t.Errorf("unexpected counts %v", m)
	}
}

func TestDistanceComputed(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	out := captureLogOutput(func() {
		DistanceComputed(ctx, "John 3:16", "John 3:17", "text-percentage", 0.0)
	})
	m := decode(t, out)
	if m["level"] != "DEBUG" || m["msg"] != "distance_computed" || m["request_id"] != "req-1" {
		t.Errorf("unexpected record %v", m)
	}
	if m["answer"] != "John 3:16" || m["guess"] != "John 3:17" {
		t.Errorf("unexpected references %v", m)
	}
}

func TestLookupFailed(t *testing.T) {
	err := errors.New("reference not found: John 30:1")

	out := captureLogOutput(func() {
		LookupFailed(context.Background(), "fetch", "John 30:1", err, true)
	})
	m := decode(t, out)
	if m["level"] != "WARN" || m["error"] != err.Error() || m["operation"] != "fetch" {
		t.Errorf("unexpected record %v", m)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	out = captureLogOutput(func() {
		LookupFailed(ctx, "context", "John 3:16", err, false)
	})
	m = decode(t, out)
	if m["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", m["level"])
	}
	if m["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", m["request_id"])
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil")
	}
}
