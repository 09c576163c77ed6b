package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCrawlCmd создаёт команду загрузки страницы в базу знаний.
//
// Пример использования:
//
//	webchat crawl https://example.com
func NewCrawlCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "crawl <url>",
		Short: "Загрузить страницу в базу знаний сервера",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "crawling %s ...\n", args[0])
			resp, err := NewAPIClient(app.ServerURL).Crawl(token, args[0])
			if err != nil {
				return explain(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
