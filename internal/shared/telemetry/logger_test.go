package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	Warn("ai_review.schema_drift", map[string]any{"resume_id": 7, "msg": "shadowed"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("expected warn level, got %v", entry["level"])
	}
	if entry["msg"] != "ai_review.schema_drift" {
		t.Fatalf("reserved keys must not be overridden by fields, got %v", entry["msg"])
	}
	if entry["resume_id"] != float64(7) {
		t.Fatalf("expected resume_id field, got %v", entry["resume_id"])
	}
}

func TestWriteReportsMarshalFailure(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })

	Error("bad", map[string]any{"ch": make(chan int)})

	if !bytes.Contains(buf.Bytes(), []byte("logger marshal failed")) {
		t.Fatalf("expected marshal failure line, got %q", buf.String())
	}
}
