package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kennedykori/credrails-reconciler/internal/cmd/fixtures"
	"github.com/kennedykori/credrails-reconciler/internal/cmd/reconcile"
)

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "reconciler",
		Short: "",
		Long:  ``,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Welcome to reconciler!")
		},
	}

	cmd.AddCommand(reconcile.NewCommand())
	cmd.AddCommand(fixtures.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
