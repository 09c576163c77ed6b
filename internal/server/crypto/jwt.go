// Package crypto содержит криптографические примитивы,
// используемые сервером WebChat.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - хэширование паролей (bcrypt, argon2id).
package crypto

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired: срок жизни токена истёк.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid: подпись, алгоритм или claims токена некорректны.
	ErrTokenInvalid = errors.New("invalid token")
)

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer: значение поля iss (кто выдал токен), опционально.
	Issuer string
	// Audience: значение поля aud (для кого предназначен токен), опционально.
	Audience string
	// SigningKey: секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL: срок жизни access-токена.
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает JWT access-токен.
//
// subject: email пользователя (поле sub).
// Используется алгоритм подписи HS256.
func NewAccessToken(subject string, cfg JWTConfig) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись и claims токена и возвращает subject.
//
// Ошибка ErrTokenExpired: токен просрочен,
// ErrTokenInvalid: всё остальное (подпись, алгоритм, iss/aud, пустой sub).
func ParseAccessToken(tokenStr string, cfg JWTConfig) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return "", fmt.Errorf("%w: issuer", ErrTokenInvalid)
	}
	if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
		return "", fmt.Errorf("%w: audience", ErrTokenInvalid)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", fmt.Errorf("%w: subject", ErrTokenInvalid)
	}
	return subject, nil
}
