// Package service содержит бизнес-логику WebChat.
// Это прослойка между HTTP-обработчиками (api) и хранилищами/внешними системами
// (repository, crawler, llm, knowledge).
package service

import (
	"context"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-webchat/internal/server/service/models"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Repositories: набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users UsersRepo
}

// Deps: внешние зависимости crawl/query: база знаний, загрузчик, экстрактор, LLM.
type Deps struct {
	Store     ContentStore
	Fetcher   Fetcher
	Extractor Extractor
	Converter Converter
	Generator Generator
}

// Services: агрегатор всех сервисов приложения.
type Services struct {
	Auth      *AuthService
	Crawl     *CrawlService
	Query     *QueryService
	Knowledge *KnowledgeService
}

// NewServices собирает все сервисы приложения.
func NewServices(repos Repositories, deps Deps, cfg *config.Config) *Services {
	return &Services{
		Auth:      NewAuthService(repos.Users, cfg),
		Crawl:     NewCrawlService(deps.Store, deps.Fetcher, deps.Extractor, deps.Converter, cfg.Crawl),
		Query:     NewQueryService(deps.Store, deps.Generator),
		Knowledge: NewKnowledgeService(deps.Store, cfg.Knowledge.PreviewChars),
	}
}

// UsersRepo: хранилище аккаунтов.
//
// Уникальность email обеспечивает само хранилище:
// при дубликате Create возвращает serr.ErrAlreadyExists.
type UsersRepo interface {
	Create(ctx context.Context, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Pinger: хранилище умеет проверять соединение (для /health).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ContentStore: база знаний: нормализованный URL -> текст страницы.
type ContentStore interface {
	Put(key, text string)
	Get(key string) (string, bool)
	List() map[string]string
}

// Fetcher загружает HTML одной страницы.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// Extractor вырезает основной контент из HTML.
type Extractor interface {
	Extract(html string) (*smodels.ExtractResult, error)
}

// Converter переводит HTML в markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// Generator отвечает на вопрос по тексту сайта через LLM.
type Generator interface {
	Generate(ctx context.Context, content, question string) (string, error)
}
