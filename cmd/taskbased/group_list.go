// Group notification list command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	groupListGID       string
	groupListPageSize  int
	groupListPageToken string
	groupListRole      int8
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Inspect group-level task notifications",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a group's task notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var role *int8
		if cmd.Flags().Changed("role") {
			r := groupListRole
			role = &r
		}

		svc, store, err := attachService()
		if err != nil {
			fatalSys("list", err)
		}
		defer store.Detach()

		res, next, err := svc.ListGroupNotifications(cmd.Context(), groupListGID, groupListPageSize, groupListPageToken, role)
		if err != nil {
			fatalUser("list group notifications", err)
		}

		if flagJSON {
			return printJSON(map[string]any{"result": res, "next_page_token": next})
		}
		for _, n := range res {
			fmt.Printf("%s  sender=%s  role=%d\n", n.TaskID, n.OwnerID, n.Role)
		}
		if next != "" {
			fmt.Println("next page token:", next)
		}
		return nil
	},
}

func init() {
	groupListCmd.Flags().StringVar(&groupListGID, "gid", "", "group id (required)")
	groupListCmd.Flags().IntVar(&groupListPageSize, "page-size", 0, "page size (default 10)")
	groupListCmd.Flags().StringVar(&groupListPageToken, "page-token", "", "continuation token from a previous page")
	groupListCmd.Flags().Int8Var(&groupListRole, "role", 0, "filter by role (-1..2)")

	groupListCmd.MarkFlagRequired("gid")

	groupCmd.AddCommand(groupListCmd)
}
