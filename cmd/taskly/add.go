package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

type addCmdOptions struct {
	description     string
	listID          int64
	date            string
	deadline        string
	estimate        int
	priority        string
	parentID        int64
	labels          []string
	recurringType   string
	recurringConfig string
	filePath        string
}

func newAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &addCmdOptions{}
	cmd := &cobra.Command{
		Use:     "add <name>",
		Aliases: []string{"create"},
		Short:   "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, cfg, opts, jsonOutput, args)
		},
	}

	bindAddFlags(cmd, opts)
	return cmd
}

func bindAddFlags(cmd *cobra.Command, opts *addCmdOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.description, "description", "d", "", "task description")
	flags.Int64VarP(&opts.listID, "list", "l", 0, "list id (default Inbox)")
	flags.StringVar(&opts.date, "date", "", "scheduled date (YYYY-MM-DD)")
	flags.StringVar(&opts.deadline, "deadline", "", "deadline (RFC3339 or YYYY-MM-DD)")
	flags.IntVar(&opts.estimate, "estimate", 0, "estimated minutes")
	flags.StringVarP(&opts.priority, "priority", "p", "", "priority (none, low, medium, high)")
	flags.Int64Var(&opts.parentID, "parent", 0, "parent task id")
	flags.StringSliceVar(&opts.labels, "label", nil, "label name or id (repeatable)")
	flags.StringVar(&opts.recurringType, "recurring", "", "recurrence (daily, weekly, weekdays, monthly, yearly, custom)")
	flags.StringVar(&opts.recurringConfig, "recurring-config", "", "recurrence configuration")
	flags.StringVarP(&opts.filePath, "file", "f", "", "create tasks from a markdown file")
}

func runAdd(cmd *cobra.Command, cfg *config.Config, opts *addCmdOptions, jsonOutput *bool, args []string) error {
	return withClient(cfg, func(client *api.Client) error {
		if opts.filePath != "" {
			return runAddFromFile(cmd.Context(), client, opts.filePath, jsonOutput)
		}

		req, err := buildAddRequest(cmd, opts, args)
		if err != nil {
			return err
		}
		if len(opts.labels) > 0 {
			req.LabelIDs, err = resolveLabelIDs(cmd.Context(), client, opts.labels)
			if err != nil {
				return err
			}
		}

		resp, err := client.CreateTask(cmd.Context(), req)
		if err != nil {
			return err
		}
		if *jsonOutput {
			return writeJSON(resp)
		}
		return writePlain("%d\n", resp.ID)
	})
}

func buildAddRequest(cmd *cobra.Command, opts *addCmdOptions, args []string) (api.TaskCreateRequest, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return api.TaskCreateRequest{}, errors.New("name is required")
	}

	req := api.TaskCreateRequest{
		Name:            name,
		Description:     opts.description,
		Date:            opts.date,
		Deadline:        opts.deadline,
		Priority:        opts.priority,
		RecurringType:   opts.recurringType,
		RecurringConfig: opts.recurringConfig,
	}
	if cmd.Flags().Changed("list") {
		req.ListID = &opts.listID
	}
	if cmd.Flags().Changed("estimate") {
		req.EstimateMinutes = &opts.estimate
	}
	if cmd.Flags().Changed("parent") {
		req.ParentTaskID = &opts.parentID
	}
	return req, nil
}

func runAddFromFile(ctx context.Context, client *api.Client, path string, jsonOutput *bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	frontMatter, items, err := parseMarkdown(string(content))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no tasks found in %s", path)
	}

	base, labelRefs, err := frontMatterToRequest(frontMatter)
	if err != nil {
		return err
	}
	if len(labelRefs) > 0 {
		base.LabelIDs, err = resolveLabelIDs(ctx, client, labelRefs)
		if err != nil {
			return err
		}
	}

	created := make([]api.TaskResponse, 0, len(items))
	for _, item := range items {
		req := base
		req.Name = item
		resp, err := client.CreateTask(ctx, req)
		if err != nil {
			return fmt.Errorf("create %q: %w", item, err)
		}
		created = append(created, resp)
	}

	if *jsonOutput {
		return writeJSON(created)
	}
	for _, task := range created {
		if err := writePlain("%d\n", task.ID); err != nil {
			return err
		}
	}
	return nil
}
