//go:build integration

package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/crawler"
)

func TestRodFetcher_ReturnsRenderedHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><head><title>Test Page</title></head>
<body><div id="content">Loading...</div>
<script>document.getElementById('content').textContent = 'JavaScript Rendered';</script>
</body></html>`))
	}))
	defer srv.Close()

	bm, err := crawler.NewBrowserManager(crawler.WithMaxPages(2))
	require.NoError(t, err)

	f := crawler.NewRodFetcher(bm, "WebChatCrawler/1.0")
	defer f.Close()

	// третья страница идёт уже через перезапущенный браузер
	for i := 0; i < 3; i++ {
		html, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "JavaScript Rendered")
	}
}

func TestRodFetcher_ContextCancellation(t *testing.T) {
	bm, err := crawler.NewBrowserManager()
	require.NoError(t, err)

	f := crawler.NewRodFetcher(bm, "")
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Fetch(ctx, "http://127.0.0.1:1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestBrowserManager_CloseIsIdempotent(t *testing.T) {
	bm, err := crawler.NewBrowserManager()
	require.NoError(t, err)

	require.NoError(t, bm.Close())
	require.NoError(t, bm.Close())

	_, _, err = bm.Acquire()
	require.Error(t, err)
}
