// Task update command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	updateUID       string
	updateID        string
	updateUpdatedAt int64
	updateDueDate   int64
	updateMessage   string
)

var taskUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a task's duedate or message under its version token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := types.TaskPatch{}
		if cmd.Flags().Changed("duedate") {
			due := updateDueDate
			patch.DueDate = &due
		}
		if cmd.Flags().Changed("message") {
			msg := updateMessage
			patch.Message = &msg
		}

		svc, store, err := attachService()
		if err != nil {
			fatalSys("update", err)
		}
		defer store.Detach()

		updatedAt, err := svc.UpdateTask(cmd.Context(), updateUID, updateID, patch, updateUpdatedAt)
		if err != nil {
			fatalUser("update task", err)
		}

		if flagJSON {
			return printJSON(map[string]int64{"updated_at": updatedAt})
		}
		fmt.Println("updated_at:", updatedAt)
		return nil
	},
}

func init() {
	taskUpdateCmd.Flags().StringVar(&updateUID, "uid", "", "task owner id (required)")
	taskUpdateCmd.Flags().StringVar(&updateID, "id", "", "task id (required)")
	taskUpdateCmd.Flags().Int64Var(&updateUpdatedAt, "updated-at", 0, "expected version token (required)")
	taskUpdateCmd.Flags().Int64Var(&updateDueDate, "duedate", 0, "due date, ms since epoch")
	taskUpdateCmd.Flags().StringVar(&updateMessage, "message", "", "task message")

	taskUpdateCmd.MarkFlagRequired("uid")
	taskUpdateCmd.MarkFlagRequired("id")
	taskUpdateCmd.MarkFlagRequired("updated-at")
}
