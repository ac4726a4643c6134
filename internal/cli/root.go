package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifewheel",
	Short: "Life balance index engine",
	Long:  "Lifewheel scores activity across 8 life spheres into a single balance index, tracks it daily, and reads the trend. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(seedCmd)
}
