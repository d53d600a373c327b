package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage task lists",
	}

	cmd.AddCommand(
		newListLsCmd(cfg, jsonOutput),
		newListAddCmd(cfg, jsonOutput),
		newListEditCmd(cfg, jsonOutput),
		newListRmCmd(cfg, jsonOutput),
	)
	return cmd
}

func newListLsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Show all lists with task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				lists, err := client.ListLists(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(lists)
				}
				for _, list := range lists {
					if err := writePlain("%s\n", formatListLine(list)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newListAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var req api.ListCreateRequest
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a list",
		Args:  requireExactlyArgs(1, "list name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withClient(cfg, func(client *api.Client) error {
				list, err := client.CreateList(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(list)
				}
				return writePlain("%d\n", list.ID)
			})
		},
	}
	cmd.Flags().StringVar(&req.Color, "color", "", "hex color")
	cmd.Flags().StringVar(&req.Emoji, "emoji", "", "emoji")
	return cmd
}

func newListEditCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name, color, emoji string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or restyle a list",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			req := api.ListUpdateRequest{ID: id}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("color") {
				req.Color = &color
			}
			if cmd.Flags().Changed("emoji") {
				req.Emoji = &emoji
			}
			if req.Name == nil && req.Color == nil && req.Emoji == nil {
				return errors.New("no fields to update")
			}

			return withClient(cfg, func(client *api.Client) error {
				list, err := client.UpdateList(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(list)
				}
				return writePlain("%s\n", formatListLine(list))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "hex color")
	cmd.Flags().StringVar(&emoji, "emoji", "", "emoji")
	return cmd
}

func newListRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a list; its tasks move to the Inbox",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeleteList(cmd.Context(), id); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(api.SuccessResponse{Success: true})
				}
				return writePlain("deleted list %d\n", id)
			})
		},
	}
}

func formatListLine(list api.ListResponse) string {
	return fmt.Sprintf("%s #%d %s (%d)", list.Emoji, list.ID, list.Name, list.TaskCount)
}
