package commands

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rjet",
		Short: "电热式推力器稳态热气动求解器",
	}
	root.AddCommand(serveCmd(), solveCmd(), plotCmd())
	return root
}
