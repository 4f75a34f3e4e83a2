// Task assignees command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	assigneesUID       string
	assigneesID        string
	assigneesUpdatedAt int64
	assigneesRemove    string
	assigneesAdd       string
)

var taskAssigneesCmd = &cobra.Command{
	Use:   "assignees",
	Short: "Remove and add task assignees under the version token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := attachService()
		if err != nil {
			fatalSys("assignees", err)
		}
		defer store.Detach()

		updatedAt, err := svc.UpdateAssignees(cmd.Context(), assigneesUID, assigneesID,
			splitIDs(assigneesRemove), splitIDs(assigneesAdd), assigneesUpdatedAt)
		if err != nil {
			fatalUser("update assignees", err)
		}

		if flagJSON {
			return printJSON(map[string]int64{"updated_at": updatedAt})
		}
		fmt.Println("updated_at:", updatedAt)
		return nil
	},
}

func init() {
	taskAssigneesCmd.Flags().StringVar(&assigneesUID, "uid", "", "task owner id (required)")
	taskAssigneesCmd.Flags().StringVar(&assigneesID, "id", "", "task id (required)")
	taskAssigneesCmd.Flags().Int64Var(&assigneesUpdatedAt, "updated-at", 0, "expected version token (required)")
	taskAssigneesCmd.Flags().StringVar(&assigneesRemove, "remove", "", "comma-separated assignee ids to remove")
	taskAssigneesCmd.Flags().StringVar(&assigneesAdd, "add", "", "comma-separated assignee ids to add")

	taskAssigneesCmd.MarkFlagRequired("uid")
	taskAssigneesCmd.MarkFlagRequired("id")
	taskAssigneesCmd.MarkFlagRequired("updated-at")
}
