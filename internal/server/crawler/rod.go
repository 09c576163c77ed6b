package crawler

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
)

var _ service.Fetcher = (*RodFetcher)(nil)

// RodFetcher рендерит страницу в headless Chrome и отдаёт итоговый HTML.
//
// Каждая загрузка идёт в отдельном incognito-контексте,
// чтобы cookies/localStorage разных сайтов не смешивались.
type RodFetcher struct {
	manager   *BrowserManager
	userAgent string
}

// NewRodFetcher создаёт fetcher поверх BrowserManager.
func NewRodFetcher(manager *BrowserManager, userAgent string) *RodFetcher {
	return &RodFetcher{manager: manager, userAgent: userAgent}
}

// Fetch открывает url и возвращает отрендеренный HTML.
// Все операции со страницей ограничены ctx.
func (f *RodFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	incognito, err := browser.Incognito()
	if err != nil {
		return "", fmt.Errorf("incognito context: %w", err)
	}
	defer incognito.Close()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fmt.Errorf("set user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close закрывает браузер.
func (f *RodFetcher) Close() error {
	return f.manager.Close()
}
