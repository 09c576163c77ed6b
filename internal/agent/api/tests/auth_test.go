package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

func TestClient_Signup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		var req models.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Email != "test@example.com" || req.Password != "StrongPass123" {
			t.Fatalf("unexpected request %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.SignupResponse{
			Message: "User created successfully",
			User:    models.UserInfo{ID: "1", Email: req.Email},
		})
	})

	c := newTLSClient(t, mux)

	resp, err := c.Signup("test@example.com", "StrongPass123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.User.ID != "1" || resp.User.Email != "test@example.com" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

// /login принимает форму username/password
func TestClient_Login_SendsForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "test@example.com" {
			t.Fatalf("unexpected username %q", r.PostForm.Get("username"))
		}
		if r.PostForm.Get("password") != "StrongPass123" {
			t.Fatalf("unexpected password %q", r.PostForm.Get("password"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "access-1", TokenType: "bearer"})
	})

	c := newTLSClient(t, mux)

	resp, err := c.Login("test@example.com", "StrongPass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken != "access-1" || resp.TokenType != "bearer" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestClient_Login_WrongPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	})

	c := newTLSClient(t, mux)

	_, err := c.Login("test@example.com", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Incorrect email or password") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Me(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			t.Fatalf("unexpected Authorization %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.RootResponse{Message: "Welcome to the WebChat API", User: "test@example.com"})
	})

	c := newTLSClient(t, mux)

	resp, err := c.Me("access-1")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if resp.User != "test@example.com" {
		t.Fatalf("unexpected user %q", resp.User)
	}
}

func TestClient_CrawlQueryKnowledge(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/crawl", func(w http.ResponseWriter, r *http.Request) {
		var req models.CrawlRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(models.CrawlResponse{Message: "Successfully crawled " + req.URL, URL: req.URL})
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		var req models.QueryRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(models.QueryResponse{Response: "echo: " + req.Query, URL: req.URL})
	})
	mux.HandleFunc("/knowledge", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.KnowledgeResponse{KnowledgeBase: map[string]string{"https://example.com": "text"}})
	})

	c := newTLSClient(t, mux)

	cr, err := c.Crawl("tok", "https://example.com")
	if err != nil || cr.URL != "https://example.com" {
		t.Fatalf("Crawl: %+v, %v", cr, err)
	}

	qr, err := c.Query("tok", "https://example.com", "hi")
	if err != nil || qr.Response != "echo: hi" {
		t.Fatalf("Query: %+v, %v", qr, err)
	}

	kr, err := c.Knowledge("tok")
	if err != nil || kr.KnowledgeBase["https://example.com"] != "text" {
		t.Fatalf("Knowledge: %+v, %v", kr, err)
	}
}
