package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
)

var _ service.Fetcher = (*HTTPFetcher)(nil)

// ErrBodyTooLarge: тело ответа больше maxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// HTTPFetcher загружает HTML обычным GET-запросом (без JavaScript).
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// HTTPOption настраивает HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient подменяет http.Client (например, в тестах).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithUserAgent задаёт заголовок User-Agent.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes ограничивает размер читаемого тела ответа.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// NewHTTPFetcher создаёт HTTPFetcher.
// Своего таймаута у клиента нет: загрузку ограничивает ctx краулинга.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       &http.Client{},
		maxBodyBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch возвращает тело ответа. Любой статус кроме 200: ошибка.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	// лишний байт отличает тело ровно в лимит от обрезанного
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxBodyBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, f.maxBodyBytes)
	}
	return string(body), nil
}

// Close: у http.Client нечего закрывать.
func (f *HTTPFetcher) Close() error {
	return nil
}
