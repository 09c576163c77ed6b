package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// QueryService отвечает на вопросы по сохранённому контенту сайта.
type QueryService struct {
	store     ContentStore
	generator Generator
}

func NewQueryService(store ContentStore, generator Generator) *QueryService {
	return &QueryService{store: store, generator: generator}
}

// Query возвращает нормализованный URL и ответ модели как есть.
//
// Порядок проверок: URL -> наличие контента -> непустой вопрос.
// Поэтому для не-краулнутого URL всегда ErrContentNotFound.
func (s *QueryService) Query(ctx context.Context, rawURL, question string) (string, string, error) {
	key, err := knowledge.Normalize(rawURL)
	if err != nil {
		return "", "", err
	}

	content, ok := s.store.Get(key)
	if !ok {
		return key, "", serr.ErrContentNotFound
	}

	if strings.TrimSpace(question) == "" {
		return key, "", fmt.Errorf("%w: query is empty", serr.ErrInvalidInput)
	}

	answer, err := s.generator.Generate(ctx, content, question)
	if err != nil {
		return key, "", fmt.Errorf("%w: %v", serr.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(answer) == "" {
		return key, "", fmt.Errorf("%w: empty answer", serr.ErrGenerationFailed)
	}
	return key, answer, nil
}
