package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "painctl",
		Short: "Inspect the pain relief figure, regions and exercise catalog",
		Long: `painctl runs the figure, the region graph and the recommender locally
without a server. Useful for checking pose and catalog changes.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.RegionsCmd())
	rootCmd.AddCommand(cli.RecommendCmd())
	rootCmd.AddCommand(cli.MeshCmd())
	rootCmd.AddCommand(cli.PickCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
