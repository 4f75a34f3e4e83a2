// Version command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/taskbase"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the taskbased version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("taskbased", taskbase.Version)
	},
}
