package main

import (
	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>...",
		Short: "Show task details with subtasks, labels and activity",
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				tasks := make([]api.TaskResponse, 0, len(ids))
				for _, id := range ids {
					task, err := client.GetTask(cmd.Context(), id)
					if err != nil {
						return err
					}
					tasks = append(tasks, task)
				}

				if *jsonOutput {
					if len(tasks) == 1 {
						return writeJSON(tasks[0])
					}
					return writeJSON(tasks)
				}
				for i, task := range tasks {
					if i > 0 {
						if err := writePlain("\n"); err != nil {
							return err
						}
					}
					if err := writeTaskDetail(task); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
