// Package api содержит HTTP-клиент для взаимодействия с сервером WebChat.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON и form-запросов
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *APIError с полем detail
//     из тела ответа (если тела нет, используется res.Status).
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// DefaultTimeout: таймаут запроса; краулинг на сервере может идти до минуты.
const DefaultTimeout = 90 * time.Second

// Client реализует HTTP-клиент для общения с сервером WebChat.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (например, в тестах с httptest.NewTLSServer).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithInsecureTLS отключает проверку сертификата сервера.
// Только для локальной разработки с самоподписанным сертификатом.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
		}
	}
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL: базовый адрес сервера (например: "http://127.0.0.1:8000").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError: ответ сервера со статусом не 2xx.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// IsUnauthorized: сервер отклонил токен (нужно заново выполнить login).
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// readAPIError читает тело ошибочного ответа.
//
// Сервер отдаёт {"detail": "..."}; если тело не JSON, берём его как есть.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		return &APIError{Status: res.StatusCode, Detail: body.Detail}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = res.Status
	}
	return &APIError{Status: res.StatusCode, Detail: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp.
// resp == nil или пустое тело: не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do отправляет запрос и разбирает ответ.
func (c *Client) do(method, path string, body io.Reader, contentType string, resp any, authToken string) error {
	r, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// Если req == nil, тело не отправляется и Content-Type не устанавливается.
// Если resp == nil, тело ответа не декодируется.
// Непустой authToken добавляется как Authorization: Bearer <token>.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	var buf bytes.Buffer
	contentType := ""
	if req != nil {
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		contentType = "application/json"
	}
	return c.do(http.MethodPost, path, &buf, contentType, resp, authToken)
}

// PostForm выполняет POST-запрос с телом application/x-www-form-urlencoded.
func (c *Client) PostForm(path string, form url.Values, resp any, authToken string) error {
	return c.do(http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", resp, authToken)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	return c.do(http.MethodGet, path, nil, "", resp, authToken)
}
