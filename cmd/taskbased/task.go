// Task command group for the taskbased CLI.
package main

import "github.com/spf13/cobra"

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, inspect, and manage tasks",
}

func init() {
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskAssigneesCmd)
	taskCmd.AddCommand(taskAckCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}
