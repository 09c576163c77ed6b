// Package api реализует HTTP-слой сервера WebChat.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - логирование ошибок оркестраторов с контекстом запроса.
//
// Регистрация маршрутов живёт в internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: проверка access-токенов (middleware авторизации).
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
// Если verifier == nil, он строится поверх svc.Auth.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if verifier == nil && svc != nil && svc.Auth != nil {
		verifier = middleware.NewJWTVerifier(svc.Auth).WithLogger(log.Logger)
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
	}
}

// WriteJSON пишет v как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, detail string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, models.ErrorResponse{Detail: detail})
}

// errorStatus переводит доменную ошибку в HTTP-статус и текст detail.
// Внутренние ошибки наружу не раскрываются.
func (h *Handler) errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, serr.ErrBadJSON):
		return http.StatusBadRequest, serr.ErrBadJSON.Error()
	case errors.Is(err, serr.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL. Must include scheme (e.g., https) and domain"
	case errors.Is(err, serr.ErrWeakPassword):
		return http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", h.minPasswordLength())
	case errors.Is(err, serr.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, serr.ErrInvalidCredentials):
		return http.StatusBadRequest, "Incorrect email or password"
	case errors.Is(err, serr.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, serr.ErrUnauthorized):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, serr.ErrContentNotFound):
		return http.StatusNotFound, "URL not found. Please crawl the website first."
	case errors.Is(err, serr.ErrTooManyRequests):
		return http.StatusTooManyRequests, serr.ErrTooManyRequests.Error()
	case errors.Is(err, serr.ErrCrawlTimeout):
		return http.StatusGatewayTimeout, fmt.Sprintf("Crawling timed out after %d seconds", h.crawlTimeoutSeconds())
	case errors.Is(err, serr.ErrCrawlFailed):
		return http.StatusInternalServerError, "Error crawling website: " + err.Error()
	case errors.Is(err, serr.ErrGenerationFailed):
		return http.StatusInternalServerError, "Error processing query: " + err.Error()
	default:
		return http.StatusInternalServerError, serr.ErrInternal.Error()
	}
}

// fail логирует ошибку операции и пишет ответ.
// 4xx: Warn, 5xx: Error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error, fields ...zap.Field) {
	status, detail := h.errorStatus(err)

	fields = append(fields,
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	if u, ok := middleware.UserFromContext(r.Context()); ok {
		fields = append(fields, zap.String("user", u.Email))
	}

	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", fields...)
	} else {
		h.Log.Warn("request rejected", fields...)
	}

	WriteError(w, status, detail)
}

func (h *Handler) minPasswordLength() int {
	if h.Svc != nil && h.Svc.Auth != nil {
		return h.Svc.Auth.MinPasswordLength()
	}
	return 8
}

func (h *Handler) crawlTimeoutSeconds() int {
	if h.Svc != nil && h.Svc.Crawl != nil {
		return int(h.Svc.Crawl.Timeout().Seconds())
	}
	return 60
}

// decodeJSON читает тело запроса; битый JSON: ErrBadJSON.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", serr.ErrBadJSON, err)
	}
	return nil
}
