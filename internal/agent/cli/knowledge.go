package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// NewKnowledgeCmd печатает базу знаний сервера: URL и превью контента.
func NewKnowledgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "knowledge",
		Short: "Показать загруженные страницы",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.token()
			if err != nil {
				return err
			}

			resp, err := NewAPIClient(app.ServerURL).Knowledge(token)
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			if len(resp.KnowledgeBase) == 0 {
				fmt.Fprintln(out, "knowledge base is empty")
				return nil
			}
			for _, url := range slices.Sorted(maps.Keys(resp.KnowledgeBase)) {
				preview := strings.Join(strings.Fields(resp.KnowledgeBase[url]), " ")
				fmt.Fprintf(out, "%s\n  %s\n", url, preview)
			}
			return nil
		},
	}
}
