package cmd

import (
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"pim.GO/config"
)

var rootCmd = &cobra.Command{
	Use:   "pim",
	Short: "Scoped attribute value engine CLI",
	Long:  "Client-side tooling for the PIM scoped attribute value store: list definitions, read and write scoped values, warm resolver caches.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitRedis()
	},
}

func Execute() {
	if len(os.Args) <= 1 {
		banner := figure.NewFigure("pim.GO", "", true)
		banner.Print()
	}
	Apply()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
