// @title           WebChat API
// @version         1.0.0
// @description     Crawl a website, then ask an LLM questions about its content.
// @description     Provides user authentication, crawling and a shared knowledge base.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения WebChat.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера (по умолчанию ./configs/server.yaml);
//   - подключение к хранилищу аккаунтов (PostgreSQL или MongoDB);
//   - сборку краулера, LLM-клиента, сервисов, middleware и HTTP-обработчиков;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы с закрытием браузера и БД.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
// HTTP API сервера реализовано в пакете internal/server/api и документируется с помощью OpenAPI (Swagger).
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/api"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/crawler"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/llm"
	h "github.com/IvanChernomyrdin/go-webchat/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/repository"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-webchat/swagger/docs"
)

func main() {
	defaultPath := "./configs/server.yaml"
	if p := os.Getenv("WEBCHAT_CONFIG"); p != "" {
		defaultPath = p
	}
	configPath := flag.String("config", defaultPath, "path to server config")
	flag.Parse()

	// до чтения конфига пишем в логгер по умолчанию
	sugar := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		sugar.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Stdout:     cfg.Log.Stdout,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer httpLogger.Sync()
	log := httpLogger.Logger
	sugar = log.Sugar()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// хранилище аккаунтов
	users, closeDB, err := openUsers(ctx, cfg, log)
	if err != nil {
		sugar.Fatal(err)
	}
	defer closeDB()

	// краулер: fetcher (rod|http) + экстрактор + конвертер в markdown
	fetcher, err := crawler.NewFetcher(cfg.Crawl, log)
	if err != nil {
		sugar.Fatal(err)
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			sugar.Warnf("close fetcher: %v", err)
		}
	}()

	genaiClient, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey)
	if err != nil {
		sugar.Fatal(err)
	}

	deps := service.Deps{
		Store:     knowledge.NewMemoryStore(),
		Fetcher:   fetcher,
		Extractor: crawler.NewExtractor(cfg.Crawl.Extractor),
		Converter: crawler.NewMarkdownConverter(),
		Generator: llm.NewGeminiGenerator(genaiClient, cfg.LLM),
	}

	// создаём сервис
	svc := service.NewServices(service.Repositories{Users: users}, deps, cfg)
	// создаём хандлер (verifier строится поверх AuthService)
	handler := api.NewHandler(svc, httpLogger, nil)
	// создаём роутер
	router := h.NewRouter(handler, cfg)

	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		log.Info("server started",
			zap.String("addr", addr),
			zap.Bool("tls", cfg.TLS.Enabled),
			zap.String("db", cfg.DB.Driver),
			zap.String("fetcher", cfg.Crawl.Fetcher),
		)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Errorf("server stopped with error: %v", err)
		return
	}
	sugar.Info("server gracefully stopped")
}

// openUsers подключает хранилище аккаунтов по cfg.DB.Driver.
// Возвращает репозиторий и функцию закрытия соединения.
func openUsers(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.UsersRepo, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, coll, err := config.OpenMongo(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongo disconnect", zap.Error(err))
			}
		}
		return repository.NewUsersMongoRepository(coll, cfg.DB.QueryTimeout), closeFn, nil
	default:
		db, err := config.OpenPostgres(ctx, cfg.DB, cfg.Migrations, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewUsersRepository(db, cfg.DB.QueryTimeout), closeQuietly(db, log), nil
	}
}

func closeQuietly(c io.Closer, log *zap.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn("close db", zap.Error(err))
		}
	}
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
