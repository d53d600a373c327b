package main

import (
	"strings"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newSearchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search task names and descriptions",
		Args:  requireAtLeastArgs(1, "search text is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				tasks, err := client.SearchTasks(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(tasks)
				}
				return writeTaskList(tasks)
			})
		},
	}
}

func newOverdueCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List incomplete tasks due before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				tasks, err := client.OverdueTasks(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(tasks)
				}
				return writeTaskList(tasks)
			})
		},
	}
}
