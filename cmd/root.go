package cmd

import (
	"github.com/lta/newsbridge/internal/config"
	"github.com/lta/newsbridge/internal/logger"
	"github.com/spf13/cobra"
)

var appCfg *config.Config

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "newsbridge",
	Short: "LTA news WordPress sync bridge",
	Long:  "Serves the LTA news API and keeps the local news list reconciled with WordPress.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initApp)
}

func initApp() {
	appCfg = config.Load()

	if err := logger.Init(logger.Config{
		Level:  appCfg.LogLevel,
		Output: appCfg.LogFile,
		Pretty: appCfg.Env == "development",
	}); err != nil {
		panic(err)
	}
}
