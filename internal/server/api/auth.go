// HTTP-хендлеры регистрации, логина и корневого эндпоинта
package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// APIVersion: версия, которую отдаёт GET /.
const APIVersion = "1.0.0"

// Signup обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 200 OK: регистрация успешна;
//   - 400 Bad Request: неверный JSON, невалидный email, короткий пароль, email занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Sign up
// @Description  Creates an account. Password must be at least 8 characters.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.SignupRequest true "Signup request"
// @Success      200 {object} models.SignupResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input, weak password or email taken"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	user, err := h.Svc.Auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "signup", err, zap.String("email", req.Email))
		return
	}

	h.Log.Info("user signed up", zap.String("email", user.Email))
	WriteJSON(w, http.StatusOK, models.SignupResponse{
		Message: "User created successfully",
		User:    user.Public(),
	})
}

// Login обрабатывает вход пользователя (OAuth2 password flow).
//
// Тело: application/x-www-form-urlencoded: username (email) и password.
//
// Ответы:
//   - 200 OK: выдан access-токен;
//   - 400 Bad Request: пустые поля или неверные учётные данные;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Log in
// @Description  Exchanges email/password for a bearer access token.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Email"
// @Param        password formData string true "Password"
// @Success      200 {object} models.TokenResponse
// @Failure      400 {object} models.ErrorResponse "Incorrect email or password"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, "login", serr.ErrInvalidInput)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	token, err := h.Svc.Auth.Login(r.Context(), email, password)
	if err != nil {
		h.fail(w, r, "login", err, zap.String("email", email))
		return
	}

	h.Log.Info("user logged in", zap.String("email", strings.ToLower(email)))
	WriteJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   models.TokenTypeBearer,
	})
}

// Root отдаёт описание API и email текущего пользователя.
//
// @Summary      API info
// @Tags         info
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.RootResponse
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Router       / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.fail(w, r, "root", serr.ErrUnauthorized)
		return
	}

	WriteJSON(w, http.StatusOK, models.RootResponse{
		Message: "Welcome to the WebChat API",
		Version: APIVersion,
		Endpoints: map[string]string{
			"/crawl":     "POST - Crawl a website and store its content (provide 'url' in body)",
			"/query":     "POST - Query the LLM using crawled content (provide 'url' and 'query' in body)",
			"/knowledge": "GET - Retrieve the current knowledge base",
		},
		User: user.Email,
	})
}
