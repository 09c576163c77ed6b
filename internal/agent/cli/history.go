package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/memory"
)

// NewHistoryCmd показывает (или очищает) локальную историю вопросов.
//
// Пример использования:
//
//	webchat history
//	webchat history --url https://example.com
//	webchat history --clear
func NewHistoryCmd(app *App) *cobra.Command {
	var (
		clearAll bool
		url      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Локальная история вопросов и ответов",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if clearAll {
				if err := SaveHistoryToFile(app.HistoryPath, memory.NewHistory()); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			}

			h, err := app.loadHistory()
			if err != nil {
				return err
			}

			entries := h.List(url)
			if len(entries) == 0 {
				fmt.Fprintln(out, "history is empty")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "[%s] %s\nQ: %s\nA: %s\n\n",
					e.AskedAt.Local().Format("15:04:05 02.01.2006"), e.URL, e.Question, e.Answer)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove all history entries")
	cmd.Flags().StringVar(&url, "url", "", "show only entries for this URL")

	return cmd
}
