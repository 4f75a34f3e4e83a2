// Task list command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	listUID       string
	listPageSize  int
	listPageToken string
	listStatus    int8
	listFields    string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an owner's tasks newest-first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := types.ParseFields(splitIDs(listFields))
		if err != nil {
			fatalUser("list tasks", err)
		}

		var status *types.Status
		if cmd.Flags().Changed("status") {
			st := types.Status(listStatus)
			if !st.Valid() {
				fatalUser("list tasks", types.ErrInvalidStatus)
			}
			status = &st
		}

		svc, store, err := attachService()
		if err != nil {
			fatalSys("list", err)
		}
		defer store.Detach()

		tasks, next, err := svc.ListTasks(cmd.Context(), listUID, fields, listPageSize, listPageToken, status)
		if err != nil {
			fatalUser("list tasks", err)
		}

		if flagJSON {
			return printJSON(map[string]any{"result": tasks, "next_page_token": next})
		}
		for _, t := range tasks {
			fmt.Printf("%s  %-8s  %s\n", t.TaskID, t.Status, t.Kind)
		}
		if next != "" {
			fmt.Println("next page token:", next)
		}
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVar(&listUID, "uid", "", "task owner id (required)")
	taskListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "page size (default 10)")
	taskListCmd.Flags().StringVar(&listPageToken, "page-token", "", "continuation token from a previous page")
	taskListCmd.Flags().Int8Var(&listStatus, "status", 0, "filter by status (-1, 0, 1)")
	taskListCmd.Flags().StringVar(&listFields, "fields", "", "comma-separated field names to project")

	taskListCmd.MarkFlagRequired("uid")
}
