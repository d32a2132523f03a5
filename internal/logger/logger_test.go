package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestFieldsAreStructured(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetOutput(&buf)

	Warn("provider rejected request", map[string]any{
		"provider": "keycloak",
		"code":     "invalid_grant",
	})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["level"] != "WARN" || line["msg"] != "provider rejected request" {
		t.Fatalf("unexpected line %v", line)
	}
	if line["provider"] != "keycloak" || line["code"] != "invalid_grant" {
		t.Fatalf("fields missing from %v", line)
	}
}

func TestNilFields(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetOutput(&buf)
	Info("shutdown signal received", nil)

	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"shutdown signal received"`)) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
