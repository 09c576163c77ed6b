package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/memory"
)

// NewAskCmd создаёт команду вопроса по загруженной странице.
//
// Всё после URL: текст вопроса. Ответ печатается и
// добавляется в локальную историю (без --no-history).
//
// Пример использования:
//
//	webchat ask https://example.com What is this site about?
func NewAskCmd(app *App) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "ask <url> <question...>",
		Short: "Задать вопрос по загруженной странице",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			question := strings.TrimSpace(strings.Join(args[1:], " "))
			if question == "" {
				return errors.New("question is empty")
			}

			resp, err := NewAPIClient(app.ServerURL).Query(token, args[0], question)
			if err != nil {
				return explain(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Response)

			if noHistory {
				return nil
			}
			h, err := app.loadHistory()
			if err != nil {
				return err
			}
			h.Add(memory.Entry{URL: resp.URL, Question: question, Answer: resp.Response})
			return SaveHistoryToFile(app.HistoryPath, h)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not save the answer to local history")

	return cmd
}
