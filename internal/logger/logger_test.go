package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newBufferLogger(env, level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithOptions(env, Options{Level: level, Output: &buf}), &buf
}

func TestNew_DevelopmentAndProduction(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		logger := New(env)
		if logger == nil {
			t.Fatalf("Expected logger to be created for %s", env)
		}
		if logger.DebugEnabled() != (env == "development") {
			t.Errorf("Unexpected debug level for %s", env)
		}
	}
}

func TestNewWithOptions_DefaultLevels(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
	}{
		{env: "development", wantDebug: true},
		{env: "production", wantDebug: false},
		{env: "test", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.env, "")
			logger.Debug("loading workbook", nil)

			got := strings.Contains(buf.String(), "loading workbook")
			if got != tt.wantDebug {
				t.Errorf("Debug output present = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestNewWithOptions_LevelOverride(t *testing.T) {
	logger, buf := newBufferLogger("production", "WARN")

	logger.Info("directory entry added", nil)
	if strings.Contains(buf.String(), "directory entry added") {
		t.Error("Info message should be suppressed at warn level")
	}

	logger.Warn("import finished with row errors", nil)
	if !strings.Contains(buf.String(), "import finished with row errors") {
		t.Error("Warn message should appear at warn level")
	}
}

func TestNewWithOptions_InvalidLevelKeepsDefault(t *testing.T) {
	logger, buf := newBufferLogger("development", "chatty")

	logger.Debug("still debugging", nil)
	if !strings.Contains(buf.String(), "still debugging") {
		t.Error("Expected development default (debug) to apply for unknown level")
	}
}

func TestLevelMethods(t *testing.T) {
	logger, buf := newBufferLogger("production", "debug")

	logger.Debug("debug message", map[string]interface{}{"table": "Directory"})
	logger.Info("info message", map[string]interface{}{"count": 3})
	logger.Warn("warn message", map[string]interface{}{"row": 7})
	logger.Error("error message", errors.New("disk full"), map[string]interface{}{"op": "save"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log lines, got %d", len(lines))
	}

	wantLevels := []string{"debug", "info", "warn", "error"}
	for i, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Expected valid JSON output, got error: %v", err)
		}
		if entry["level"] != wantLevels[i] {
			t.Errorf("Line %d: expected level %s, got %v", i, wantLevels[i], entry["level"])
		}
	}

	if !strings.Contains(lines[0], "Directory") {
		t.Error("Expected debug line to carry its field")
	}
	if !strings.Contains(lines[3], "disk full") {
		t.Error("Expected error line to include the error")
	}
}

func TestWith(t *testing.T) {
	logger, buf := newBufferLogger("production", "")

	child := logger.With(map[string]interface{}{"backend": "xlsx"})
	child.Info("store loaded", nil)

	if !strings.Contains(buf.String(), `"backend":"xlsx"`) {
		t.Errorf("Expected child logger to include context field, got %s", buf.String())
	}
}

func TestWithRequestID(t *testing.T) {
	logger, buf := newBufferLogger("production", "")

	logger.WithRequestID("req-123").Info("request handled", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected valid JSON output, got error: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("Expected request_id req-123, got %v", entry["request_id"])
	}
}

func TestDevelopmentConsoleOutput(t *testing.T) {
	logger, buf := newBufferLogger("development", "")

	logger.Info("console line", map[string]interface{}{"table": "Lot_Owners"})

	output := buf.String()
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Error("Expected console output in development, got JSON")
	}
	if !strings.Contains(output, "console line") || !strings.Contains(output, "Lot_Owners") {
		t.Errorf("Expected message and field in console output, got %s", output)
	}
}

func TestNilFields(t *testing.T) {
	logger, buf := newBufferLogger("production", "")

	logger.Info("message with nil fields", nil)

	if !strings.Contains(buf.String(), "message with nil fields") {
		t.Error("Expected message to be logged even with nil fields")
	}
}

func TestDebugEnabled(t *testing.T) {
	logger, _ := newBufferLogger("production", "warn")
	if logger.DebugEnabled() {
		t.Error("Debug should be disabled at warn level")
	}

	logger, _ = newBufferLogger("production", "debug")
	if !logger.DebugEnabled() {
		t.Error("Debug should be enabled by the level override")
	}
}
