package commands

import (
	"fmt"

	"github.com/localnerve/campus-market/pkg/marketclient"
	"github.com/spf13/cobra"
)

// statusCmd reports the listing store state of a running server
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the server reads from its persistent store",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := marketclient.New(serverURL).Status()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(status)
		}

		fmt.Printf("Server:          %s\n", serverURL)
		fmt.Printf("Connected:       %t\n", status.Connected)
		fmt.Printf("Using fallback:  %t\n", status.UsingFallback)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
