// HTTP-хендлеры краулинга, вопросов и базы знаний
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

const healthTimeout = 2 * time.Second

// Crawl загружает страницу и сохраняет её текст в базе знаний.
//
// Ответы:
//   - 200 OK: контент сохранён под нормализованным URL;
//   - 400 Bad Request: неверный JSON или URL;
//   - 401 Unauthorized: нет или невалиден токен;
//   - 500 Internal Server Error: загрузка или извлечение не удались;
//   - 504 Gateway Timeout: не уложились в timeout краулинга.
//
// @Summary      Crawl website
// @Description  Fetches the page, extracts its main content and stores it under the normalized URL.
// @Tags         knowledge
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CrawlRequest true "Crawl request"
// @Success      200 {object} models.CrawlResponse
// @Failure      400 {object} models.ErrorResponse "Invalid URL or bad JSON"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      500 {object} models.ErrorResponse "Crawling failed"
// @Failure      504 {object} models.ErrorResponse "Crawling timed out"
// @Router       /crawl [post]
func (h *Handler) Crawl(w http.ResponseWriter, r *http.Request) {
	var req models.CrawlRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "crawl", err)
		return
	}

	url, err := h.Svc.Crawl.Crawl(r.Context(), req.URL)
	if err != nil {
		h.fail(w, r, "crawl", err, zap.String("url", req.URL))
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	h.Log.Info("crawled", zap.String("url", url), zap.String("user", user.Email))

	WriteJSON(w, http.StatusOK, models.CrawlResponse{
		Message: "Successfully crawled " + url,
		URL:     url,
	})
}

// Query отвечает на вопрос по ранее сохранённому контенту.
//
// @Summary      Ask a question
// @Description  Answers the query using only the stored content of the given URL.
// @Tags         knowledge
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.QueryRequest true "Query request"
// @Success      200 {object} models.QueryResponse
// @Failure      400 {object} models.ErrorResponse "Invalid URL, empty query or bad JSON"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      404 {object} models.ErrorResponse "URL was not crawled"
// @Failure      500 {object} models.ErrorResponse "LLM failure"
// @Router       /query [post]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "query", err)
		return
	}

	url, answer, err := h.Svc.Query.Query(r.Context(), req.URL, req.Query)
	if err != nil {
		h.fail(w, r, "query", err, zap.String("url", req.URL))
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	h.Log.Info("query processed", zap.String("url", url), zap.String("user", user.Email))

	WriteJSON(w, http.StatusOK, models.QueryResponse{Response: answer, URL: url})
}

// Knowledge отдаёт превью всей базы знаний.
//
// @Summary      Knowledge base
// @Description  Returns every crawled URL with the first 200 characters of its content.
// @Tags         knowledge
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.KnowledgeResponse
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       /knowledge [get]
func (h *Handler) Knowledge(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.KnowledgeResponse{
		KnowledgeBase: h.Svc.Knowledge.Snapshot(),
	})
}

// Health: проверка живости, без авторизации.
// Если хранилище аккаунтов не отвечает, возвращает 503.
//
// @Summary      Health check
// @Tags         info
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.Svc.Auth.Ping(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
