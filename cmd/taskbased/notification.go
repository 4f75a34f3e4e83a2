// Notification command group for the taskbased CLI.
package main

import "github.com/spf13/cobra"

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notif"},
	Short:   "Inspect and manage a recipient's notifications",
}

func init() {
	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationDeleteCmd)
}
