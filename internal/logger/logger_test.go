package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/samvad-hq/surreal-http/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWithWriterEmitsJSONAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWithWriter(&config.Config{LogLevel: "warn", AppName: "surreal-test"}, &buf)
	if err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}
	t.Cleanup(func() { S = nil })

	log.InfoObj("dropped", "k", 1)
	log.WarnObj("kept", "request", map[string]any{"path": "key/t"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "kept" || entry["app"] != "surreal-test" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field: %v", entry)
	}
}

func TestWrapRoutesObjectsAsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core))

	log.DebugObj("surreal request completed", "surreal_request", map[string]any{"status": 200})
	log.ErrorObj("export failed", "error", "boom")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	first := logs.All()[0]
	if first.Message != "surreal request completed" || first.ContextMap()["surreal_request"] == nil {
		t.Fatalf("unexpected entry %+v", first)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if ParseLevel("verbose") != zapcore.InfoLevel {
		t.Fatalf("unknown level should default to info")
	}
	if ParseLevel(" DEBUG ") != zapcore.DebugLevel {
		t.Fatalf("level parsing should be case-insensitive")
	}
}

func TestPackageHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
}
