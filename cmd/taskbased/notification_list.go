// Notification list command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	notifListUID       string
	notifListPageSize  int
	notifListPageToken string
	notifListStatus    int8
	notifListFields    string
)

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a recipient's notifications joined with their tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := types.ParseFields(splitIDs(notifListFields))
		if err != nil {
			fatalUser("list notifications", err)
		}

		var status *types.Status
		if cmd.Flags().Changed("status") {
			st := types.Status(notifListStatus)
			if !st.Valid() {
				fatalUser("list notifications", types.ErrInvalidStatus)
			}
			status = &st
		}

		svc, store, err := attachService()
		if err != nil {
			fatalSys("list", err)
		}
		defer store.Detach()

		views, next, err := svc.ListNotifications(cmd.Context(), notifListUID, fields, notifListPageSize, notifListPageToken, status)
		if err != nil {
			fatalUser("list notifications", err)
		}

		if flagJSON {
			return printJSON(map[string]any{"result": views, "next_page_token": next})
		}
		for _, v := range views {
			fmt.Printf("%s  task=%-8s  ack=%s\n", v.Task.TaskID, v.Task.Status, v.AckStatus)
		}
		if next != "" {
			fmt.Println("next page token:", next)
		}
		return nil
	},
}

func init() {
	notificationListCmd.Flags().StringVar(&notifListUID, "uid", "", "recipient id (required)")
	notificationListCmd.Flags().IntVar(&notifListPageSize, "page-size", 0, "page size (default 10)")
	notificationListCmd.Flags().StringVar(&notifListPageToken, "page-token", "", "continuation token from a previous page")
	notificationListCmd.Flags().Int8Var(&notifListStatus, "status", 0, "filter by ack status (-1, 0, 1)")
	notificationListCmd.Flags().StringVar(&notifListFields, "fields", "", "comma-separated task field names to project")

	notificationListCmd.MarkFlagRequired("uid")
}
