// Task ack command for the taskbased CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

var (
	ackUID     string
	ackTID     string
	ackSender  string
	ackStatus  int8
	ackMessage string
)

var taskAckCmd = &cobra.Command{
	Use:   "ack",
	Short: "Acknowledge a task notification with an approve or reject vote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, store, err := attachService()
		if err != nil {
			fatalSys("ack", err)
		}
		defer store.Detach()

		changed, err := svc.Ack(cmd.Context(), service.AckInput{
			RecipientID: ackUID,
			TaskID:      ackTID,
			OwnerID:     ackSender,
			Status:      types.Status(ackStatus),
			Message:     ackMessage,
		})
		if err != nil {
			fatalUser("ack task", err)
		}

		if flagJSON {
			return printJSON(changed)
		}
		if changed {
			fmt.Println("acknowledged")
		} else {
			fmt.Println("already acknowledged")
		}
		return nil
	},
}

func init() {
	taskAckCmd.Flags().StringVar(&ackUID, "uid", "", "recipient id (required)")
	taskAckCmd.Flags().StringVar(&ackTID, "tid", "", "task id (required)")
	taskAckCmd.Flags().StringVar(&ackSender, "sender", "", "task owner id (required)")
	taskAckCmd.Flags().Int8Var(&ackStatus, "status", 0, "vote: 1 approve, -1 reject (required)")
	taskAckCmd.Flags().StringVar(&ackMessage, "message", "", "ack message")

	taskAckCmd.MarkFlagRequired("uid")
	taskAckCmd.MarkFlagRequired("tid")
	taskAckCmd.MarkFlagRequired("sender")
	taskAckCmd.MarkFlagRequired("status")
}
