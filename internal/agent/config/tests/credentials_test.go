package tests

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
)

func TestDefaultPath_ReturnsPathInHomeDir(t *testing.T) {
	t.Setenv(config.HomeEnv, "")

	p, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath returned error: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir returned error: %v", err)
	}

	want := filepath.Join(home, ".webchat", "credentials.json")
	if p != want {
		t.Fatalf("expected %q, got %q", want, p)
	}
}

func TestDefaultPath_HomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)

	p, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath returned error: %v", err)
	}
	if want := filepath.Join(dir, "credentials.json"); p != want {
		t.Fatalf("expected %q, got %q", want, p)
	}
}

func TestLoad_FileNotExists_ReturnsEmptyCredentials(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "no-such-file.json")

	creds, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if creds == nil {
		t.Fatalf("expected non-nil creds")
	}
	if creds.LoggedIn() {
		t.Fatalf("expected empty creds, got %+v", *creds)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "a", "credentials.json") // вложенная директория

	want := &config.Credentials{
		AccessToken: "access-1",
		TokenType:   "bearer",
		Email:       "test@example.com",
		Server:      "http://127.0.0.1:8000",
	}

	if err := config.Save(p, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := config.Load(p)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if *got != *want {
		t.Fatalf("expected %+v, got %+v", *want, *got)
	}

	// проверим права файла только на linux, на винде он гарантирует эти права.
	if runtime.GOOS != "windows" {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("Stat returned error: %v", err)
		}
		perm := st.Mode().Perm()

		// ожидаем, что группа/остальные не имеют доступа
		if perm&0o077 != 0 {
			t.Fatalf("expected no group/other permissions, got %o", perm)
		}
	}
}

func TestLoad_BadJSON_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	p := filepath.Join(tmpDir, "credentials.json")

	if err := os.WriteFile(p, []byte("{bad-json"), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	_, err := config.Load(p)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRemove(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")

	if err := config.Save(p, &config.Credentials{AccessToken: "x"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := config.Remove(p); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("file should be removed, stat err=%v", err)
	}

	// повторное удаление не ошибка
	if err := config.Remove(p); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}
}
