// Package cli реализует командный интерфейс (CLI) клиентского приложения WebChat.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access токен) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета: функция Execute.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/api"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/memory"
)

// DefaultServerURL: адрес сервера по умолчанию.
const DefaultServerURL = "http://127.0.0.1:8000"

// ErrNotLoggedIn: команда требует токен, а login ещё не выполнен.
var ErrNotLoggedIn = errors.New("not logged in: run `webchat login` first")

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся параметры подключения к серверу, загруженные учётные данные
// и путь к файлу локальной истории вопросов.
type App struct {
	// ServerURL: базовый URL сервера WebChat (например, "http://127.0.0.1:8000").
	ServerURL string

	// CredsPath: путь к файлу с сохранённым access токеном.
	CredsPath string
	// Creds: загруженные учётные данные из файла конфигурации.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Creds *config.Credentials

	// HistoryPath: путь к файлу истории вопросов.
	HistoryPath string
}

// token возвращает сохранённый access токен или ErrNotLoggedIn.
func (a *App) token() (string, error) {
	if !a.Creds.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	return a.Creds.AccessToken, nil
}

// explain делает ответ 401 понятнее пользователю.
func explain(err error) error {
	if api.IsUnauthorized(err) {
		return fmt.Errorf("%w (token expired? run `webchat login`)", err)
	}
	return err
}

// loadHistory читает историю из HistoryPath.
func (a *App) loadHistory() (*memory.HistoryStore, error) {
	h := memory.NewHistory()
	if err := LoadHistoryFromFile(a.HistoryPath, h); err != nil {
		return nil, err
	}
	return h, nil
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE выполняется инициализация состояния приложения:
// определяются пути к файлам клиента и загружается сохранённый токен.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{
		ServerURL: DefaultServerURL,
	}

	cmd := &cobra.Command{
		Use:   "webchat",
		Short: "WebChat CLI: вопросы к LLM по содержимому сайтов",
		Long: `WebChat CLI.

Команды:
  signup     Регистрация нового пользователя
  login      Логин (получить access токен)
  logout     Удалить сохранённый токен
  whoami     Проверить токен и показать пользователя
  crawl      Загрузить страницу в базу знаний
  ask        Задать вопрос по загруженной странице
  knowledge  Показать базу знаний
  history    Локальная история вопросов
  version    Версия и дата сборки

Примеры:

Регистрация:
  webchat signup --email test@example.com --password StrongPass123

Логин:
  webchat login --email test@example.com
  (пароль спрашивается в терминале, токен сохраняется в локальном конфиге)

Вопрос по сайту:
  webchat crawl https://example.com
  webchat ask https://example.com What is this site about?
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			app.CredsPath = p

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds

			// без явного --server ходим туда, где получили токен
			if !cmd.Flags().Changed("server") {
				if env := os.Getenv("WEBCHAT_SERVER"); env != "" {
					app.ServerURL = env
				} else if creds.Server != "" {
					app.ServerURL = creds.Server
				}
			}

			hp, err := memory.DefaultHistoryPath()
			if err != nil {
				return err
			}
			app.HistoryPath = hp
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", DefaultServerURL, "server base URL")

	cmd.AddCommand(NewSignupCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewWhoamiCmd(app))
	cmd.AddCommand(NewCrawlCmd(app))
	cmd.AddCommand(NewAskCmd(app))
	cmd.AddCommand(NewKnowledgeCmd(app))
	cmd.AddCommand(NewHistoryCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
