// Task create command for the taskbased CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/internal/service"
)

var (
	createUID       string
	createGID       string
	createKind      string
	createThreshold int
	createApprovers string
	createAssignees string
	createMessage   string
	createGroupRole int8
)

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task and fan out notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := attachService()
		if err != nil {
			fatalSys("create", err)
		}
		defer store.Detach()

		in := service.CreateTaskInput{
			OwnerID:   createUID,
			GroupID:   createGID,
			Kind:      createKind,
			Threshold: createThreshold,
			Approvers: splitIDs(createApprovers),
			Assignees: splitIDs(createAssignees),
			Message:   createMessage,
		}
		if cmd.Flags().Changed("group-role") {
			role := createGroupRole
			in.GroupRole = &role
		}

		task, err := svc.CreateTask(cmd.Context(), in)
		if err != nil {
			fatalUser("create task", err)
		}

		if flagJSON {
			return printJSON(task)
		}
		fmt.Printf("Created task: %s\n", task.TaskID)
		return nil
	},
}

// splitIDs parses a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

func init() {
	taskCreateCmd.Flags().StringVar(&createUID, "uid", "", "task owner id (required)")
	taskCreateCmd.Flags().StringVar(&createGID, "gid", "", "group id")
	taskCreateCmd.Flags().StringVar(&createKind, "kind", "", "task kind")
	taskCreateCmd.Flags().IntVar(&createThreshold, "threshold", 0, "votes required for approval")
	taskCreateCmd.Flags().StringVar(&createApprovers, "approvers", "", "comma-separated approver ids")
	taskCreateCmd.Flags().StringVar(&createAssignees, "assignees", "", "comma-separated assignee ids")
	taskCreateCmd.Flags().StringVar(&createMessage, "message", "", "task message")
	taskCreateCmd.Flags().Int8Var(&createGroupRole, "group-role", 0, "group notification role (-1..2)")

	taskCreateCmd.MarkFlagRequired("uid")
}
