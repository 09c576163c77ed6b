// Package http реализует маршрутизацию HTTP-слоя сервера WebChat.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - CORS для браузерного фронтенда;
//   - логирование выполнения HTTP-запросов;
//   - проверку JWT access-токенов и rate limit;
package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/api"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware request id, логирования, recover и лимита тела для всех запросов;
//   - публичные /signup, /login, /health и /swagger;
//   - группу защищённых JWT эндпоинтов: /, /crawl, /query, /knowledge.
func NewRouter(h *api.Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// X-Forwarded-For учитываем только за доверенным прокси
	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(chimw.Recoverer)
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(chimw.RequestSize(cfg.Server.MaxBodyBytes))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	var limiter *middleware.RateLimiter
	rl := cfg.Security.RateLimit
	if rl.Enabled {
		limiter = middleware.NewRateLimiter(rl.RPS, rl.Burst, rl.Key)
	}
	byUser := strings.EqualFold(rl.Key, "user")

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health)

	// Публичные пути
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware())
		}
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})

	// защищены пути
	r.Group(func(r chi.Router) {
		// по IP режем до проверки токена, по пользователю после
		if limiter != nil && !byUser {
			r.Use(limiter.Middleware())
		}
		// проверка access токена
		r.Use(h.Verifier.AuthMiddleware())
		if limiter != nil && byUser {
			r.Use(limiter.Middleware())
		}

		r.Get("/", h.Root)
		r.Post("/crawl", h.Crawl)
		r.Post("/query", h.Query)
		r.Get("/knowledge", h.Knowledge)
	})

	return r
}
