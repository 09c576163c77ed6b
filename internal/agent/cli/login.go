package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя в систему.
//
// Команда выполняет аутентификацию пользователя на сервере WebChat,
// получает access токен и сохраняет его в локальный конфигурационный файл.
//
// Без --password пароль спрашивается в терминале без эха
// (или читается из stdin при --password-stdin).
//
// Пример использования:
//
//	webchat login --email test@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var (
		email     string
		password  string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access токен)",
		Long: `Логин пользователя.

Пример:
  webchat login --email test@example.com --password StrongPass123
  echo StrongPass123 | webchat login --email test@example.com --password-stdin
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := ReadPassword(cmd, fromStdin)
				if err != nil {
					return err
				}
				password = pw
			}

			// создаём API-клиент для общения с сервером
			c := NewAPIClient(app.ServerURL)
			// выполняем логин пользователя
			resp, err := c.Login(email, password)
			if err != nil {
				return err
			}

			// сохраняем полученный токен в состоянии приложения
			app.Creds = &config.Credentials{
				AccessToken: resp.AccessToken,
				TokenType:   resp.TokenType,
				Email:       strings.ToLower(strings.TrimSpace(email)),
				Server:      app.ServerURL,
			}

			// сохраняем токен в локальный конфигурационный файл
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password for login (prompted when omitted)")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword читает пароль из stdin или из терминала без эха.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
