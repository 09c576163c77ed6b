package crawler

import (
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
)

// NewFetcher собирает fetcher по секции crawl конфига
// и оборачивает его в LoggingFetcher.
func NewFetcher(cfg config.CrawlConfig, log *zap.Logger) (service.Fetcher, error) {
	var f service.Fetcher

	switch cfg.Fetcher {
	case config.FetcherHTTP:
		f = NewHTTPFetcher(
			WithUserAgent(cfg.UserAgent),
			WithMaxBodyBytes(cfg.MaxBodyBytes),
		)
	default:
		bm, err := NewBrowserManager(
			WithMaxPages(cfg.BrowserMaxPages),
			WithBrowserArgs(cfg.BrowserArgs),
			WithBrowserBin(cfg.BrowserBin),
		)
		if err != nil {
			return nil, err
		}
		f = NewRodFetcher(bm, cfg.UserAgent)
	}

	return NewLoggingFetcher(f, log), nil
}
