// Notification delete command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	notifDeleteUID    string
	notifDeleteTID    string
	notifDeleteSender string
	notifDeleteAll    bool
	notifDeleteStatus int8
)

var notificationDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one notification, or purge a recipient's inbox with --all",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := attachService()
		if err != nil {
			fatalSys("delete", err)
		}
		defer store.Detach()

		if notifDeleteAll {
			var status *types.Status
			if cmd.Flags().Changed("status") {
				st := types.Status(notifDeleteStatus)
				if !st.Valid() {
					fatalUser("delete notifications", types.ErrInvalidStatus)
				}
				status = &st
			}
			if err := svc.PurgeNotifications(cmd.Context(), notifDeleteUID, status); err != nil {
				fatalUser("delete notifications", err)
			}
		} else {
			if notifDeleteTID == "" || notifDeleteSender == "" {
				fatalUser("delete notification", fmt.Errorf("--tid and --sender are required without --all"))
			}
			if err := svc.DeleteNotification(cmd.Context(), notifDeleteUID, notifDeleteTID, notifDeleteSender); err != nil {
				fatalUser("delete notification", err)
			}
		}

		if flagJSON {
			return printJSON(true)
		}
		fmt.Println("deleted")
		return nil
	},
}

func init() {
	notificationDeleteCmd.Flags().StringVar(&notifDeleteUID, "uid", "", "recipient id (required)")
	notificationDeleteCmd.Flags().StringVar(&notifDeleteTID, "tid", "", "task id")
	notificationDeleteCmd.Flags().StringVar(&notifDeleteSender, "sender", "", "task owner id")
	notificationDeleteCmd.Flags().BoolVar(&notifDeleteAll, "all", false, "delete all of the recipient's notifications")
	notificationDeleteCmd.Flags().Int8Var(&notifDeleteStatus, "status", 0, "with --all, only delete this ack status")

	notificationDeleteCmd.MarkFlagRequired("uid")
}
