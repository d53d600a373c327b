package main

import (
	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> [<id>...]",
		Aliases: []string{"delete"},
		Short:   "Delete tasks; subtasks become top-level tasks",
		Args:    requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDArgs(args)
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				for _, id := range ids {
					if err := client.DeleteTask(cmd.Context(), id); err != nil {
						return err
					}
				}
				if *jsonOutput {
					return writeJSON(api.SuccessResponse{Success: true})
				}
				for _, id := range ids {
					if err := writePlain("deleted %d\n", id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newDeletedCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "deleted",
		Short: "Show recently deleted tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				deletions, err := client.TaskDeletions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(deletions)
				}
				for _, d := range deletions {
					if err := writePlain("%s #%d %s\n", formatTime(d.DeletedAt), d.TaskID, d.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}
