package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
)

var _ service.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher логирует каждую загрузку и делегирует её next.
type LoggingFetcher struct {
	next service.Fetcher
	log  *zap.Logger
}

func NewLoggingFetcher(next service.Fetcher, log *zap.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, log: log}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("url", url),
			zap.Int("bytes", len(html)),
			zap.Duration("duration", time.Since(begin)),
		}
		if err != nil {
			f.log.Warn("fetch failed", append(fields, zap.Error(err))...)
			return
		}
		f.log.Info("fetch", fields...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
