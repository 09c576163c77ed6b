package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd печатает версию клиента, дату сборки и версию Go.
// С --short печатается только версия (удобно для скриптов).
//
// Пример использования:
//
//	webchat version
//	webchat version --short
func NewVersionCmd(buildVersion, buildDate string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Показать версию и дату сборки",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, buildVersion)
				return
			}
			fmt.Fprintf(out, "version=%s\nbuild_date=%s\ngo=%s %s/%s\n",
				buildVersion, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version")

	return cmd
}
