// Task delete command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteUID string
	deleteID  string
)

var taskDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a task and tear down its notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := attachService()
		if err != nil {
			fatalSys("delete", err)
		}
		defer store.Detach()

		deleted, err := svc.DeleteTask(cmd.Context(), deleteUID, deleteID)
		if err != nil {
			fatalUser("delete task", err)
		}

		if flagJSON {
			return printJSON(deleted)
		}
		if deleted {
			fmt.Println("deleted")
		} else {
			fmt.Println("not found")
		}
		return nil
	},
}

func init() {
	taskDeleteCmd.Flags().StringVar(&deleteUID, "uid", "", "task owner id (required)")
	taskDeleteCmd.Flags().StringVar(&deleteID, "id", "", "task id (required)")

	taskDeleteCmd.MarkFlagRequired("uid")
	taskDeleteCmd.MarkFlagRequired("id")
}
