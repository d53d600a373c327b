package main

import (
	"context"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
	"taskly/internal/models"
)

func newDoneCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id> [<id>...]",
		Aliases: []string{"close"},
		Short:   "Mark tasks completed",
		Args:    requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTaskStatus(cmd.Context(), cfg, *jsonOutput, args, models.StatusCompleted)
		},
	}
}

func newReopenCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id> [<id>...]",
		Short: "Move completed tasks back to pending",
		Args:  requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setTaskStatus(cmd.Context(), cfg, *jsonOutput, args, models.StatusPending)
		},
	}
}

func setTaskStatus(ctx context.Context, cfg *config.Config, jsonOutput bool, args []string, status models.TaskStatus) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	value := string(status)

	return withClient(cfg, func(client *api.Client) error {
		responses := make([]api.TaskResponse, 0, len(ids))
		for _, id := range ids {
			resp, err := client.UpdateTask(ctx, api.TaskUpdateRequest{ID: id, Status: &value})
			if err != nil {
				return err
			}
			responses = append(responses, resp)
		}
		if jsonOutput {
			return writeJSON(responses)
		}
		for _, resp := range responses {
			if err := writePlain("%s\n", formatTaskLine(resp)); err != nil {
				return err
			}
		}
		return nil
	})
}
