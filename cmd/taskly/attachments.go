package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

func newAttachCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Manage task attachments",
	}

	cmd.AddCommand(
		newAttachAddCmd(cfg, jsonOutput),
		newAttachGetCmd(cfg),
		newAttachRmCmd(cfg, jsonOutput),
	)
	return cmd
}

func newAttachAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <task-id> <path>",
		Short: "Upload a file to a task",
		Args:  requireExactlyArgs(2, "task id and file path are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()
			if name == "" {
				name = filepath.Base(args[1])
			}

			return withClient(cfg, func(client *api.Client) error {
				attachment, err := client.UploadAttachment(cmd.Context(), taskID, name, file)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(attachment)
				}
				return writePlain("#%d %s (%s, %d bytes)\n", attachment.ID, attachment.Filename, attachment.MimeType, attachment.FileSize)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "filename to store (default: base name of path)")
	return cmd
}

func newAttachGetCmd(cfg *config.Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <attachment-id>",
		Short: "Download attachment content",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			return withClient(cfg, func(client *api.Client) error {
				if err := client.DownloadAttachment(cmd.Context(), id, w); err != nil {
					return fmt.Errorf("download attachment %d: %w", id, err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newAttachRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <attachment-id>",
		Short: "Delete an attachment",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeleteAttachment(cmd.Context(), id); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(api.SuccessResponse{Success: true})
				}
				return writePlain("deleted attachment %d\n", id)
			})
		},
	}
}
