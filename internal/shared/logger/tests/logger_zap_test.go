package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-webchat/internal/shared/logger"
)

func TestNewHTTPLogger_CreatesLogFileAndWrites(t *testing.T) {
	// ВАЖНО: тест не параллелим, т.к. путь общий.
	logPath := logger.DefaultFile

	// подчистим старый файл (если есть)
	os.Remove(logPath)

	l := logger.NewHTTPLogger()
	l.Info("test message")
	_ = l.Sync()

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist at %q, got error: %v", logPath, err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}

	os.RemoveAll(filepath.Dir(filepath.Dir(logPath)))
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "http.log")

	l := logger.New(logger.Options{File: logPath})
	l.LogRequest("POST", "/login", 401, 20, 158.5463)
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"method", "POST",
		"uri", "/login",
		"status", "401",
		"response_size", "20",
		"duration_ms",
	}
	for _, sub := range mustContain {
		if !strings.Contains(s, sub) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestNew_JSONFormatAndLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")

	l := logger.New(logger.Options{File: logPath, Format: "json", Level: "warn"})
	l.Info("skipped message")
	l.Warn("kept message")
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if strings.Contains(s, "skipped message") {
		t.Fatalf("info message must be filtered at warn level, got: %q", s)
	}
	if !strings.Contains(s, `"msg":"kept message"`) {
		t.Fatalf("expected json encoded message, got: %q", s)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")

	l := logger.New(logger.Options{File: logPath, Level: "verbose"})
	l.Debug("debug message")
	l.Info("info message")
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if strings.Contains(s, "debug message") {
		t.Fatalf("debug must be filtered, got: %q", s)
	}
	if !strings.Contains(s, "info message") {
		t.Fatalf("expected info message, got: %q", s)
	}
}
