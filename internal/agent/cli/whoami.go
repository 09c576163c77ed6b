package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd проверяет токен на сервере (GET /) и печатает пользователя.
func NewWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Проверить токен и показать текущего пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			resp, err := NewAPIClient(app.ServerURL).Me(token)
			if err != nil {
				return explain(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\nserver: %s (api %s)\n", resp.User, app.ServerURL, resp.Version)
			return nil
		},
	}
}
