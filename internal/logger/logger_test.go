package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLogErrorWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info")

	LogError("save failed", errors.New("boom"), "student_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "save failed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["student_id"] != float64(7) {
		t.Errorf("student_id = %v", entry["student_id"])
	}
}

func TestDebugFilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info")

	LogDebug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %s", buf.String())
	}
}
