// Task get command for the taskbased CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	getUID    string
	getID     string
	getFields string
)

var taskGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch one task, optionally projected to selected fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := types.ParseFields(splitIDs(getFields))
		if err != nil {
			fatalUser("get task", err)
		}

		svc, store, err := attachService()
		if err != nil {
			fatalSys("get", err)
		}
		defer store.Detach()

		task, err := svc.GetTask(cmd.Context(), getUID, getID, fields)
		if err != nil {
			fatalUser("get task", err)
		}
		return printJSON(task)
	},
}

func init() {
	taskGetCmd.Flags().StringVar(&getUID, "uid", "", "task owner id (required)")
	taskGetCmd.Flags().StringVar(&getID, "id", "", "task id (required)")
	taskGetCmd.Flags().StringVar(&getFields, "fields", "", "comma-separated field names to project")

	taskGetCmd.MarkFlagRequired("uid")
	taskGetCmd.MarkFlagRequired("id")
}
