package logger_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/refractlabs/refract/internal/adapters/logger"
)

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Info("some message")

	out := buf.String()
	if !strings.Contains(out, "some message") {
		t.Errorf("Expected output to contain 'some message', got: %s", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("Expected output to contain 'INFO', got: %s", out)
	}
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Warn("some warning")

	out := buf.String()
	if !strings.Contains(out, "some warning") {
		t.Errorf("Expected output to contain 'some warning', got: %s", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("Expected output to contain 'WARN', got: %s", out)
	}
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Error(os.ErrPermission)

	out := buf.String()
	if !strings.Contains(out, "permission denied") {
		t.Errorf("Expected output to contain 'permission denied', got: %s", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("Expected output to contain 'ERROR', got: %s", out)
	}
}
