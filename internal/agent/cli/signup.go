package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSignupCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Для выполнения команды необходимо указать обязательные флаги
// --email и --password (не короче 8 символов).
//
// Пример использования:
//
//	webchat signup --email test@example.com --password StrongPass123
func NewSignupCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  webchat signup --email test@example.com --password StrongPass123
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewAPIClient(app.ServerURL)
			resp, err := c.Signup(email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registration successful: %s (id %s)\n", resp.User.Email, resp.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password for registration (min 8 characters)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
