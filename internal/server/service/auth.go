package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService реализует регистрацию, логин и проверку access-токенов.
//
// Токены stateless (JWT HS256, sub = email), отзыва нет.
type AuthService struct {
	users UsersRepo

	hasher    crypto.PasswordHasher
	minLength int
	jwt       crypto.JWTConfig
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, cfg *config.Config) *AuthService {
	var hasher crypto.PasswordHasher = crypto.BcryptHasher{Cost: cfg.Password.Bcrypt.Cost}
	if strings.EqualFold(cfg.Password.Hasher, "argon2id") {
		hasher = crypto.Argon2Hasher{Params: crypto.Argon2Params{
			Time:      cfg.Password.Argon2.Time,
			MemoryKiB: cfg.Password.Argon2.MemoryKiB,
			Threads:   cfg.Password.Argon2.Threads,
			KeyLen:    cfg.Password.Argon2.KeyLen,
			SaltLen:   cfg.Password.Argon2.SaltLen,
		}}
	}

	minLength := cfg.Password.MinLength
	if minLength <= 0 {
		minLength = 8
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		minLength: minLength,
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
	}
}

// Signup регистрирует нового пользователя.
//
// Валидация:
//   - email обязателен и должен быть валидным (приводится к нижнему регистру)
//   - пароль не короче minLength символов
//
// Ошибки:
//   - ErrInvalidInput: невалидный email
//   - ErrWeakPassword: короткий пароль
//   - ErrEmailTaken: email уже зарегистрирован
func (s *AuthService) Signup(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !emailRe.MatchString(email) {
		return models.User{}, serr.ErrInvalidInput
	}
	if utf8.RuneCountInString(password) < s.minLength {
		return models.User{}, serr.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}

	// без предварительной проверки: гонку двух регистраций разруливает unique-индекс
	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return models.User{}, serr.ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Login проверяет email/пароль и выдаёт access-токен.
//
// Не раскрывает, существует ли email: и неизвестный email,
// и неверный пароль дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", serr.ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return "", serr.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}

	return s.IssueToken(user.Email)
}

// IssueToken выпускает access-токен с sub = email.
func (s *AuthService) IssueToken(email string) (string, error) {
	token, err := crypto.NewAccessToken(email, s.jwt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrInternal, err)
	}
	return token, nil
}

// VerifyToken проверяет токен и возвращает email из sub.
// Любая проблема с токеном (подпись, срок, claims): ErrUnauthorized.
func (s *AuthService) VerifyToken(token string) (string, error) {
	email, err := crypto.ParseAccessToken(token, s.jwt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrUnauthorized, err)
	}
	return email, nil
}

// Authenticate проверяет токен и загружает пользователя.
// Если пользователь удалён, ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	email, err := s.VerifyToken(token)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrUnauthorized
		}
		return models.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MinPasswordLength: минимальная длина пароля в символах.
func (s *AuthService) MinPasswordLength() int {
	return s.minLength
}

// Ping проверяет хранилище аккаунтов, если оно это поддерживает.
func (s *AuthService) Ping(ctx context.Context) error {
	if p, ok := s.users.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
