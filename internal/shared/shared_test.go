package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "sound", "Boo.wav")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "Boo.wav") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "sbx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Warn("written")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Errorf("log file missing entry: %s", data)
		}
	})

	t.Run("WithLogger tags every entry", func(t *testing.T) {
		var buf bytes.Buffer
		parent := NewLogger(&buf)
		parent.SetLevel(log.WarnLevel)
		child := WithLogger(parent, "component", "upload")

		child.Info("hidden")
		child.Warn("skipped", "file", "notes.txt")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("child should keep the parent's level, got %s", out)
		}
		if !strings.Contains(out, "component=upload") || !strings.Contains(out, "notes.txt") {
			t.Errorf("expected tagged entry, got %s", out)
		}
	})

	t.Run("ApplyLogLevel", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})
		if err := ApplyLogLevel(logger, "debug"); err != nil {
			t.Fatalf("ApplyLogLevel() error = %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := ApplyLogLevel(logger, "loud"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}

		if err := ApplyLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid UUID, got %s", a)
	}
}
