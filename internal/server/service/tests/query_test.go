package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	"github.com/IvanChernomyrdin/go-webchat/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

func newQueryService(t *testing.T) (*service.QueryService, *knowledge.MemoryStore, *mocks.MockGenerator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := knowledge.NewMemoryStore()
	gen := mocks.NewMockGenerator(ctrl)
	return service.NewQueryService(store, gen), store, gen
}

// контент сохранён без слэша, спрашиваем со слэшем
func TestQueryService_OK(t *testing.T) {
	svc, store, gen := newQueryService(t)
	store.Put("https://example.com", "# Example\nWe sell widgets.")

	gen.EXPECT().
		Generate(gomock.Any(), "# Example\nWe sell widgets.", "What do they sell?").
		Return("Widgets.", nil)

	url, answer, err := svc.Query(context.Background(), "https://example.com/", "What do they sell?")
	require.NoError(t, err)
	require.Equal(t, "https://example.com", url)
	require.Equal(t, "Widgets.", answer)
}

// для не-краулнутого URL: ErrContentNotFound при любом тексте вопроса
func TestQueryService_ContentNotFound(t *testing.T) {
	svc, _, _ := newQueryService(t)

	for _, q := range []string{"anything", "", "   "} {
		_, _, err := svc.Query(context.Background(), "https://never-crawled.example.com", q)
		require.ErrorIs(t, err, serr.ErrContentNotFound)
	}
}

func TestQueryService_InvalidURL(t *testing.T) {
	svc, _, _ := newQueryService(t)

	_, _, err := svc.Query(context.Background(), "not a url", "hi")
	require.ErrorIs(t, err, serr.ErrInvalidURL)
}

func TestQueryService_EmptyQuestion(t *testing.T) {
	svc, store, _ := newQueryService(t)
	store.Put("https://example.com", "content")

	_, _, err := svc.Query(context.Background(), "https://example.com", "  ")
	require.ErrorIs(t, err, serr.ErrInvalidInput)
}

func TestQueryService_GenerationFailed(t *testing.T) {
	svc, store, gen := newQueryService(t)
	store.Put("https://example.com", "content")

	gen.EXPECT().Generate(gomock.Any(), "content", "q").Return("", errors.New("quota exceeded"))

	_, _, err := svc.Query(context.Background(), "https://example.com", "q")
	require.ErrorIs(t, err, serr.ErrGenerationFailed)
}

func TestQueryService_EmptyAnswer(t *testing.T) {
	svc, store, gen := newQueryService(t)
	store.Put("https://example.com", "content")

	gen.EXPECT().Generate(gomock.Any(), "content", "q").Return("", nil)

	_, _, err := svc.Query(context.Background(), "https://example.com", "q")
	require.ErrorIs(t, err, serr.ErrGenerationFailed)
}
