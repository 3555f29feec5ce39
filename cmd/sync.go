package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncTimeout time.Duration

// syncCmd runs one pull from WordPress without starting the server.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a one-off sync pull from WordPress",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp(appCfg)
		if err != nil {
			return err
		}
		defer application.close()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		result, err := application.syncer.SyncFromWordPress(ctx)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 5*time.Minute, "overall timeout for the sync run")
	rootCmd.AddCommand(syncCmd)
}
