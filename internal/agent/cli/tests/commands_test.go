package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/memory"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireBearer отвечает 401, если токен не тот
func requireBearer(w http.ResponseWriter, r *http.Request, token string) bool {
	if r.Header.Get("Authorization") != "Bearer "+token {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return false
	}
	return true
}

func TestSignupCmd_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req["email"] != "new@example.com" || req["password"] != "StrongPass123" {
			t.Errorf("unexpected body %v", req)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "User created successfully",
			"user":    map[string]string{"id": "42", "email": "new@example.com"},
		})
	})
	app := newApp(t, newServer(t, mux).URL, "")

	out, err := run(t, cli.NewSignupCmd(app), "--email", "new@example.com", "--password", "StrongPass123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "registration successful: new@example.com (id 42)") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSignupCmd_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})
	app := newApp(t, newServer(t, mux).URL, "")

	_, err := run(t, cli.NewSignupCmd(app), "--email", "dup@example.com", "--password", "StrongPass123")
	if err == nil || !strings.Contains(err.Error(), "Email already registered") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCrawlCmd_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crawl", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r, "tok") {
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Successfully crawled https://example.com",
			"url":     "https://example.com",
		})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	out, err := run(t, cli.NewCrawlCmd(app), "https://example.com/")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "Successfully crawled https://example.com") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCrawlCmd_ExpiredToken_HintsLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crawl", func(w http.ResponseWriter, r *http.Request) {
		requireBearer(w, r, "fresh")
	})
	app := newApp(t, newServer(t, mux).URL, "stale")

	_, err := run(t, cli.NewCrawlCmd(app), "https://example.com")
	if err == nil || !strings.Contains(err.Error(), "webchat login") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// без токена в сеть не ходим
func TestCommands_NotLoggedIn(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "")

	cases := map[string][]string{
		"crawl":     {"https://example.com"},
		"ask":       {"https://example.com", "what?"},
		"knowledge": nil,
		"whoami":    nil,
	}
	for name, args := range cases {
		var err error
		switch name {
		case "crawl":
			_, err = run(t, cli.NewCrawlCmd(app), args...)
		case "ask":
			_, err = run(t, cli.NewAskCmd(app), args...)
		case "knowledge":
			_, err = run(t, cli.NewKnowledgeCmd(app), args...)
		case "whoami":
			_, err = run(t, cli.NewWhoamiCmd(app), args...)
		}
		if !errors.Is(err, cli.ErrNotLoggedIn) {
			t.Fatalf("%s: expected ErrNotLoggedIn, got %v", name, err)
		}
	}
}

func TestAskCmd_PrintsAnswerAndSavesHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r, "tok") {
			return
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req["url"] != "https://example.com/" || req["query"] != "What is this site about?" {
			t.Errorf("unexpected body %v", req)
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"response": "An example domain.",
			"url":      "https://example.com",
		})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	out, err := run(t, cli.NewAskCmd(app), "https://example.com/", "What", "is", "this", "site", "about?")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.TrimSpace(out) != "An example domain." {
		t.Fatalf("unexpected output: %q", out)
	}

	h := memory.NewHistory()
	if err := memory.LoadFromFile(app.HistoryPath, h); err != nil {
		t.Fatalf("load history: %v", err)
	}
	entries := h.List("")
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].URL != "https://example.com" || entries[0].Answer != "An example domain." {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestAskCmd_NoHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"response": "ok", "url": "https://example.com"})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	if _, err := run(t, cli.NewAskCmd(app), "--no-history", "https://example.com", "hi"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := os.Stat(app.HistoryPath); err == nil {
		t.Fatalf("history file should not be created with --no-history")
	}
}

func TestAskCmd_NotCrawled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "URL not found. Please crawl the website first."})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	_, err := run(t, cli.NewAskCmd(app), "https://example.com", "hi")
	if err == nil || !strings.Contains(err.Error(), "Please crawl the website first") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKnowledgeCmd_SortedOutput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/knowledge", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r, "tok") {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"knowledge_base": map[string]string{
				"https://b.example.com": "second\npage",
				"https://a.example.com": "first page",
			},
		})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	out, err := run(t, cli.NewKnowledgeCmd(app))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	a := strings.Index(out, "https://a.example.com")
	b := strings.Index(out, "https://b.example.com")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("unexpected order: %q", out)
	}
	if !strings.Contains(out, "second page") {
		t.Fatalf("preview should be on one line: %q", out)
	}
}

func TestKnowledgeCmd_Empty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/knowledge", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"knowledge_base": map[string]string{}})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	out, err := run(t, cli.NewKnowledgeCmd(app))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "knowledge base is empty") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWhoamiCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !requireBearer(w, r, "tok") {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"version": "1.0.0", "user": "me@example.com"})
	})
	app := newApp(t, newServer(t, mux).URL, "tok")

	out, err := run(t, cli.NewWhoamiCmd(app))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "me@example.com") || !strings.Contains(out, "api 1.0.0") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestHistoryCmd_ListFilterAndClear(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "")

	h := memory.NewHistory()
	h.Add(memory.Entry{URL: "https://a.example.com", Question: "q1", Answer: "a1"})
	h.Add(memory.Entry{URL: "https://b.example.com", Question: "q2", Answer: "a2"})
	if err := memory.SaveToFile(app.HistoryPath, h); err != nil {
		t.Fatalf("save history: %v", err)
	}

	out, err := run(t, cli.NewHistoryCmd(app), "--url", "https://b.example.com")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.Contains(out, "q1") || !strings.Contains(out, "Q: q2") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, cli.NewHistoryCmd(app), "--clear")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "history cleared") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run(t, cli.NewHistoryCmd(app))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "history is empty") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLogoutCmd_RemovesCreds(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "tok")
	if err := config.Save(app.CredsPath, app.Creds); err != nil {
		t.Fatalf("save creds: %v", err)
	}

	out, err := run(t, cli.NewLogoutCmd(app))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out, "logged out") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(app.CredsPath); err == nil {
		t.Fatalf("creds file should be removed")
	}

	// повторный logout не ошибка
	if _, err := run(t, cli.NewLogoutCmd(app)); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}
