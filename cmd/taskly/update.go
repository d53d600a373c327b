package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

type updateCmdOptions struct {
	name            string
	description     string
	listID          int64
	date            string
	deadline        string
	estimate        string
	actual          string
	priority        string
	status          string
	parent          string
	labels          []string
	recurringType   string
	recurringConfig string
}

func newUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &updateCmdOptions{}
	cmd := &cobra.Command{
		Use:     "update <id> [<id>...]",
		Aliases: []string{"edit"},
		Short:   "Update tasks",
		Long:    "Update tasks. Only the given flags change; an empty value clears a clearable field.",
		Args:    requireAtLeastOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, cfg, opts, jsonOutput, args)
		},
	}

	bindUpdateFlags(cmd, opts)
	return cmd
}

func runUpdate(cmd *cobra.Command, cfg *config.Config, opts *updateCmdOptions, jsonOutput *bool, args []string) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	req, err := buildUpdateRequest(cmd, opts)
	if err != nil {
		return err
	}
	labelsChanged := cmd.Flags().Changed("labels")
	if !hasTaskUpdateFields(req) && !labelsChanged {
		return errors.New("no fields to update")
	}

	return withClient(cfg, func(client *api.Client) error {
		if labelsChanged {
			labelIDs, err := resolveLabelIDs(cmd.Context(), client, opts.labels)
			if err != nil {
				return err
			}
			req.LabelIDs = api.Some(labelIDs)
		}

		responses := make([]api.TaskResponse, 0, len(ids))
		for _, id := range ids {
			req.ID = id
			resp, err := client.UpdateTask(cmd.Context(), req)
			if err != nil {
				return err
			}
			responses = append(responses, resp)
		}
		if *jsonOutput {
			if len(responses) == 1 {
				return writeJSON(responses[0])
			}
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

func buildUpdateRequest(cmd *cobra.Command, opts *updateCmdOptions) (api.TaskUpdateRequest, error) {
	req := api.TaskUpdateRequest{}
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = &opts.name
	}
	if flags.Changed("list") {
		req.ListID = &opts.listID
	}
	if flags.Changed("priority") {
		req.Priority = &opts.priority
	}
	if flags.Changed("status") {
		req.Status = &opts.status
	}
	if flags.Changed("description") {
		req.Description = nullableString(opts.description)
	}
	if flags.Changed("date") {
		req.Date = nullableString(opts.date)
	}
	if flags.Changed("deadline") {
		req.Deadline = nullableString(opts.deadline)
	}
	if flags.Changed("recurring") {
		req.RecurringType = nullableString(opts.recurringType)
	}
	if flags.Changed("recurring-config") {
		req.RecurringConfig = nullableString(opts.recurringConfig)
	}

	var err error
	if flags.Changed("estimate") {
		if req.EstimateMinutes, err = nullableInt(opts.estimate, "estimate"); err != nil {
			return api.TaskUpdateRequest{}, err
		}
	}
	if flags.Changed("actual") {
		if req.ActualMinutes, err = nullableInt(opts.actual, "actual"); err != nil {
			return api.TaskUpdateRequest{}, err
		}
	}
	if flags.Changed("parent") {
		if req.ParentTaskID, err = nullableID(opts.parent); err != nil {
			return api.TaskUpdateRequest{}, err
		}
	}

	return req, nil
}

func hasTaskUpdateFields(req api.TaskUpdateRequest) bool {
	return req.Name != nil ||
		req.ListID != nil ||
		req.Priority != nil ||
		req.Status != nil ||
		req.Description.Set ||
		req.Date.Set ||
		req.Deadline.Set ||
		req.EstimateMinutes.Set ||
		req.ActualMinutes.Set ||
		req.ParentTaskID.Set ||
		req.RecurringType.Set ||
		req.RecurringConfig.Set ||
		req.LabelIDs.Set
}

func bindUpdateFlags(cmd *cobra.Command, opts *updateCmdOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.name, "name", "", "new name")
	flags.StringVarP(&opts.description, "description", "d", "", "description (empty clears)")
	flags.Int64VarP(&opts.listID, "list", "l", 0, "move to list id")
	flags.StringVar(&opts.date, "date", "", "scheduled date YYYY-MM-DD (empty clears)")
	flags.StringVar(&opts.deadline, "deadline", "", "deadline (empty clears)")
	flags.StringVar(&opts.estimate, "estimate", "", "estimated minutes (empty clears)")
	flags.StringVar(&opts.actual, "actual", "", "actual minutes (empty clears)")
	flags.StringVarP(&opts.priority, "priority", "p", "", "priority (none, low, medium, high)")
	flags.StringVarP(&opts.status, "status", "s", "", "status (pending, in_progress, completed)")
	flags.StringVar(&opts.parent, "parent", "", "parent task id (empty or none detaches)")
	flags.StringSliceVar(&opts.labels, "labels", nil, "replace labels with these names or ids (empty clears)")
	flags.StringVar(&opts.recurringType, "recurring", "", "recurrence (empty clears)")
	flags.StringVar(&opts.recurringConfig, "recurring-config", "", "recurrence configuration (empty clears)")
}

func nullableString(value string) api.Nullable[string] {
	if strings.TrimSpace(value) == "" {
		return api.Null[string]()
	}
	return api.Some(value)
}

func nullableInt(value, name string) (api.Nullable[int], error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return api.Null[int](), nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return api.Nullable[int]{}, fmt.Errorf("invalid --%s %q", name, value)
	}
	return api.Some(parsed), nil
}

func nullableID(value string) (api.Nullable[int64], error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return api.Null[int64](), nil
	}
	id, err := parseIDArg(value)
	if err != nil {
		return api.Nullable[int64]{}, err
	}
	return api.Some(id), nil
}
