package tests

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
)

// newApp создаёт App с временными путями и (опционально) токеном
func newApp(t *testing.T, serverURL, token string) *cli.App {
	t.Helper()

	dir := t.TempDir()
	return &cli.App{
		ServerURL:   serverURL,
		CredsPath:   filepath.Join(dir, "creds.json"),
		Creds:       &config.Credentials{AccessToken: token},
		HistoryPath: filepath.Join(dir, "history.json"),
	}
}

func newServer(t *testing.T, mux http.Handler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// run выполняет команду и возвращает stdout
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}
