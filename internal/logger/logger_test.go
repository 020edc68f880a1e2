package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNew(t *testing.T) {
	log := New("info")
	if log == nil {
		t.Fatal("New() returned nil")
	}
}

func parseLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("test message")

	logEntry := parseLogLine(t, &buf)

	// Check required fields
	requiredFields := []string{"timestamp", "level", "message"}
	for _, field := range requiredFields {
		if _, ok := logEntry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}

	if logEntry["message"] != "test message" {
		t.Errorf("message = %v, want %q", logEntry["message"], "test message")
	}
	if logEntry["level"] != "info" {
		t.Errorf("level = %v, want %q", logEntry["level"], "info")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{name: "debug level passes debug", level: "debug", wantDebug: true},
		{name: "info level filters debug", level: "info", wantDebug: false},
		{name: "invalid level defaults to info", level: "invalid", wantDebug: false},
		{name: "empty level defaults to info", level: "", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)

			log.Debug("debug message")

			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output emitted = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestLogger_WarnLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("careful")

	logEntry := parseLogLine(t, &buf)
	if logEntry["level"] != "warning" {
		t.Errorf("level = %v, want %q", logEntry["level"], "warning")
	}
}

func TestLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("test_module").Info("test message")

	logEntry := parseLogLine(t, &buf)
	if module, ok := logEntry["module"].(string); !ok || module != "test_module" {
		t.Errorf("WithModule() module = %v, want %q", logEntry["module"], "test_module")
	}
}

func TestLogger_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithRequestID("req-123").Info("test message")

	logEntry := parseLogLine(t, &buf)
	if requestID, ok := logEntry["request_id"].(string); !ok || requestID != "req-123" {
		t.Errorf("WithRequestID() request_id = %v, want %q", logEntry["request_id"], "req-123")
	}
}

func TestLogger_WithUserID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithUserID("U123").Info("test message")

	logEntry := parseLogLine(t, &buf)
	if userID, ok := logEntry["user_id"].(string); !ok || userID != "U123" {
		t.Errorf("WithUserID() user_id = %v, want %q", logEntry["user_id"], "U123")
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	testErr := &testError{msg: "test error message"}
	log.WithError(testErr).Error("operation failed")

	logEntry := parseLogLine(t, &buf)
	if errField, ok := logEntry["error"].(string); !ok || errField != "test error message" {
		t.Errorf("WithError() error = %v, want %q", logEntry["error"], "test error message")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"flow": "camp", "attempt": 2}).Info("test message")

	logEntry := parseLogLine(t, &buf)
	if logEntry["flow"] != "camp" {
		t.Errorf("flow = %v, want %q", logEntry["flow"], "camp")
	}
	if logEntry["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", logEntry["attempt"])
	}
}

func TestLogger_Infof(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Infof("user %s in flow %s", "U1", "camp")

	logEntry := parseLogLine(t, &buf)
	if logEntry["message"] != "user U1 in flow camp" {
		t.Errorf("message = %v", logEntry["message"])
	}
}

// testError is a simple error type for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
