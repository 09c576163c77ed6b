package cli

import (
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/api"
	"github.com/IvanChernomyrdin/go-webchat/internal/agent/memory"
)

// для тестов
var (
	NewAPIClient = func(serverURL string) *api.Client {
		return api.NewClient(serverURL)
	}
	ReadPassword = func(cmd *cobra.Command, fromStdin bool) (string, error) {
		return readPassword(cmd, fromStdin)
	}
	SaveHistoryToFile   = memory.SaveToFile
	LoadHistoryFromFile = memory.LoadFromFile
)
