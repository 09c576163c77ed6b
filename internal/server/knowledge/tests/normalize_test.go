package tests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"
	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"query and fragment dropped", "https://example.com/path/?q=1#frag", "https://example.com/path"},
		{"trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"root slash", "https://example.com/", "https://example.com"},
		{"no path", "https://example.com", "https://example.com"},
		{"many trailing slashes", "http://example.com/a/b///", "http://example.com/a/b"},
		{"port kept", "http://localhost:8080/docs/", "http://localhost:8080/docs"},
		{"userinfo kept", "https://user:pw@example.com/x", "https://user:pw@example.com/x"},
		{"surrounding spaces", "  https://example.com/a  ", "https://example.com/a"},
		{"scheme lowercased", "HTTPS://example.com/A", "https://example.com/A"},
		{"params of last segment dropped", "https://example.com/a/b;v=1", "https://example.com/a/b"},
		{"params before trailing slash", "https://example.com/a/;x", "https://example.com/a"},
		{"params followed by slash kept", "https://example.com/a;p/", "https://example.com/a;p"},
		{"params of inner segment kept", "https://example.com/a;x/b", "https://example.com/a;x/b"},
		{"non-ascii path kept as typed", "https://example.com/café/", "https://example.com/café"},
		{"escaped path kept as typed", "https://example.com/caf%C3%A9", "https://example.com/caf%C3%A9"},
		{"escaped slash kept", "https://example.com/a%2Fb/", "https://example.com/a%2Fb"},
		{"query right after host", "https://example.com?x=1", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := knowledge.Normalize(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"https://example.com/docs/?page=2", "https://example.com/café/"} {
		first, err := knowledge.Normalize(in)
		require.NoError(t, err)

		second, err := knowledge.Normalize(first)
		require.NoError(t, err)
		require.Equal(t, first, second)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "invalid-url", "example.com/path", "http://", "://nohost", "http://%zz"} {
		t.Run(in, func(t *testing.T) {
			_, err := knowledge.Normalize(in)
			require.Error(t, err)
			require.True(t, errors.Is(err, serr.ErrInvalidURL), "got %v", err)
		})
	}
}
