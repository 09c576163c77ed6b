package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// CrawlService скачивает одну страницу, превращает её в markdown
// и кладёт в базу знаний под нормализованным URL.
//
// Одновременно выполняется не больше maxConcurrent загрузок,
// ожидание слота входит в общий бюджет timeout.
type CrawlService struct {
	store     ContentStore
	fetcher   Fetcher
	extractor Extractor
	converter Converter

	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewCrawlService создаёт CrawlService с параметрами из секции crawl.
func NewCrawlService(store ContentStore, fetcher Fetcher, extractor Extractor, converter Converter, cfg config.CrawlConfig) *CrawlService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 4
	}

	return &CrawlService{
		store:     store,
		fetcher:   fetcher,
		extractor: extractor,
		converter: converter,
		timeout:   timeout,
		sem:       semaphore.NewWeighted(limit),
	}
}

// Timeout: бюджет одного crawl.
func (s *CrawlService) Timeout() time.Duration {
	return s.timeout
}

// Crawl возвращает нормализованный URL, под которым сохранён контент.
//
// Ошибки:
//   - ErrInvalidURL: URL не прошёл нормализацию (загрузка не начинается)
//   - ErrCrawlTimeout: не уложились в timeout
//   - ErrCrawlFailed: загрузка/извлечение упали или текст пустой
//
// База знаний меняется только при полном успехе.
func (s *CrawlService) Crawl(ctx context.Context, rawURL string) (string, error) {
	key, err := knowledge.Normalize(rawURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", s.failure(ctx, err)
	}
	defer s.sem.Release(1)

	html, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		return "", s.failure(ctx, err)
	}

	extracted, err := s.extractor.Extract(html)
	if err != nil {
		return "", s.failure(ctx, fmt.Errorf("extract: %w", err))
	}
	if extracted == nil || strings.TrimSpace(extracted.ContentHTML) == "" {
		return "", fmt.Errorf("%w: no content extracted from %s", serr.ErrCrawlFailed, key)
	}

	text, err := s.converter.Convert(extracted.ContentHTML)
	if err != nil {
		return "", s.failure(ctx, fmt.Errorf("convert: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: page %s has no text", serr.ErrCrawlFailed, key)
	}

	// результат, полученный уже после дедлайна, не сохраняем
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", s.failure(ctx, ctx.Err())
	}

	s.store.Put(key, text)
	return key, nil
}

// failure превращает ошибку шага в ErrCrawlTimeout или ErrCrawlFailed.
func (s *CrawlService) failure(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", serr.ErrCrawlTimeout, s.timeout)
	}
	return fmt.Errorf("%w: %v", serr.ErrCrawlFailed, err)
}
