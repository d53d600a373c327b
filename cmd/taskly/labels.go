package main

import (
	"errors"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newLabelCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}

	cmd.AddCommand(
		newLabelLsCmd(cfg, jsonOutput),
		newLabelAddCmd(cfg, jsonOutput),
		newLabelEditCmd(cfg, jsonOutput),
		newLabelRmCmd(cfg, jsonOutput),
	)
	return cmd
}

func newLabelLsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Show all labels with task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				labels, err := client.ListLabels(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(labels)
				}
				for _, label := range labels {
					if err := writePlain("%s %s #%d (%d)\n", label.Icon, label.Name, label.ID, label.TaskCount); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newLabelAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var req api.LabelCreateRequest
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a label",
		Args:  requireExactlyArgs(1, "label name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return withClient(cfg, func(client *api.Client) error {
				label, err := client.CreateLabel(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(label)
				}
				return writePlain("%d\n", label.ID)
			})
		},
	}
	cmd.Flags().StringVar(&req.Color, "color", "", "hex color")
	cmd.Flags().StringVar(&req.Icon, "icon", "", "icon")
	return cmd
}

func newLabelEditCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name, color, icon string
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Rename or restyle a label",
		Args:  requireExactlyArgs(1, "label id or name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.LabelUpdateRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("color") {
				req.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				req.Icon = &icon
			}
			if req.Name == nil && req.Color == nil && req.Icon == nil {
				return errors.New("no fields to update")
			}

			return withClient(cfg, func(client *api.Client) error {
				ids, err := resolveLabelIDs(cmd.Context(), client, args)
				if err != nil {
					return err
				}
				req.ID = ids[0]
				label, err := client.UpdateLabel(cmd.Context(), req)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(label)
				}
				return writePlain("%s %s #%d\n", label.Icon, label.Name, label.ID)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "hex color")
	cmd.Flags().StringVar(&icon, "icon", "", "icon")
	return cmd
}

func newLabelRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id|name>",
		Short: "Delete a label and detach it from every task",
		Args:  requireExactlyArgs(1, "label id or name is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				ids, err := resolveLabelIDs(cmd.Context(), client, args)
				if err != nil {
					return err
				}
				if err := client.DeleteLabel(cmd.Context(), ids[0]); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(api.SuccessResponse{Success: true})
				}
				return writePlain("deleted label %d\n", ids[0])
			})
		},
	}
}
