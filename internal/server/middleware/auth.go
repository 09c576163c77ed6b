// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
	smodels "github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userKey: ключ контекста, под которым хранится аутентифицированный пользователь.
const userKey ctxKey = "user"

// Authenticator проверяет токен и возвращает владельца (service.AuthService).
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// JWTVerifier: middleware проверки access-токенов.
//
// Подпись/срок/claims проверяет Authenticator, он же загружает пользователя
// по email из sub: токен удалённого пользователя не принимается.
type JWTVerifier struct {
	auth Authenticator
	log  *zap.Logger
}

// NewJWTVerifier создаёт новый JWTVerifier.
func NewJWTVerifier(auth Authenticator) *JWTVerifier {
	return &JWTVerifier{auth: auth, log: zap.NewNop()}
}

// WithLogger задаёт логгер для сбоев хранилища (ответ 500).
func (v *JWTVerifier) WithLogger(log *zap.Logger) *JWTVerifier {
	if log != nil {
		v.log = log
	}
	return v
}

// WithUser кладёт пользователя в контекст (используется и в тестах хендлеров).
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает false, если пользователь не аутентифицирован.
func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// AuthMiddleware возвращает HTTP middleware для проверки JWT access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - проверяет токен и загружает пользователя
//   - сохраняет пользователя в context.Context
//
// В случае ошибки возвращает 401 с заголовком WWW-Authenticate: Bearer.
// Сбой хранилища при загрузке пользователя: 500.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				Unauthorized(w)
				return
			}

			user, err := v.auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, serr.ErrUnauthorized) {
					Unauthorized(w)
					return
				}
				v.log.Error("authenticate failed",
					zap.String("uri", r.RequestURI),
					zap.Error(err),
				)
				writeDetail(w, http.StatusInternalServerError, serr.ErrInternal.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Unauthorized пишет стандартный ответ 401.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(smodels.ErrorResponse{Detail: detail})
}
