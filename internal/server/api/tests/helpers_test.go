package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/api"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/models"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-webchat/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-webchat/internal/shared/logger"
	smodels "github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

type testEnv struct {
	h         *api.Handler
	users     *svcmocks.MockUsersRepo
	store     *knowledge.MemoryStore
	fetcher   *svcmocks.MockFetcher
	extractor *svcmocks.MockExtractor
	converter *svcmocks.MockConverter
	generator *svcmocks.MockGenerator
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)

	env := &testEnv{
		users:     svcmocks.NewMockUsersRepo(ctrl),
		store:     knowledge.NewMemoryStore(),
		fetcher:   svcmocks.NewMockFetcher(ctrl),
		extractor: svcmocks.NewMockExtractor(ctrl),
		converter: svcmocks.NewMockConverter(ctrl),
		generator: svcmocks.NewMockGenerator(ctrl),
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer:    "issuer",
			Audience:  "audience",
			AccessTTL: time.Minute,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
		},
		Password: config.PasswordConfig{
			Hasher:    "bcrypt",
			MinLength: 8,
			Bcrypt:    config.BcryptConfig{Cost: 4},
		},
		Crawl: config.CrawlConfig{
			Timeout:       60 * time.Second,
			MaxConcurrent: 2,
		},
		Knowledge: config.KnowledgeConfig{PreviewChars: 200},
	}

	svc := service.NewServices(
		service.Repositories{Users: env.users},
		service.Deps{
			Store:     env.store,
			Fetcher:   env.fetcher,
			Extractor: env.extractor,
			Converter: env.converter,
			Generator: env.generator,
		},
		cfg,
	)

	env.h = api.NewHandler(svc, logger.NewNop(), nil)
	return env
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(api.ContentType, api.JsonContentType)
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(api.ContentType, "application/x-www-form-urlencoded")
	return req
}

// asUser кладёт пользователя в контекст, как это делает AuthMiddleware
func asUser(req *http.Request, email string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), models.User{ID: "u1", Email: email}))
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp smodels.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Detail
}
