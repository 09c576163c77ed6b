package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
)

// NewLogoutCmd удаляет сохранённый токен.
// Токен stateless, сервер о logout не узнаёт.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый access токен",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Remove(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
