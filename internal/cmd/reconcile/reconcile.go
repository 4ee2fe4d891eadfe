package reconcile

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Manages the reconciliation of record streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("welcome to reconciler!")
			return nil
		},
	}
	cmd.AddCommand(newRunCommand())
	return cmd
}
