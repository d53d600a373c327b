package main

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

type lsCmdOptions struct {
	view          string
	hideCompleted bool
	listID        int64
	labels        []string
	priority      string
	status        string
	parent        string
	date          string
	from          string
	to            string
	search        string
	limit         int
	offset        int
}

func newLsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &lsCmdOptions{}
	cmd := &cobra.Command{
		Use:     "ls [view]",
		Aliases: []string{"list-tasks"},
		Short:   "List tasks by view and filters",
		Long:    "List tasks. Views: today, next7days, upcoming, all. Completed tasks are included unless --hide-completed is set.",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.view = args[0]
			}
			return withClient(cfg, func(client *api.Client) error {
				var labelIDs []int64
				if len(opts.labels) > 0 {
					var err error
					labelIDs, err = resolveLabelIDs(cmd.Context(), client, opts.labels)
					if err != nil {
						return err
					}
				}

				tasks, err := client.ListTasks(cmd.Context(), buildListQuery(opts, labelIDs))
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

	flags := cmd.Flags()
	flags.StringVar(&opts.view, "view", "", "view (today, next7days, upcoming, all)")
	flags.BoolVarP(&opts.hideCompleted, "hide-completed", "H", false, "leave out completed tasks")
	flags.Int64VarP(&opts.listID, "list", "l", 0, "filter by list id")
	flags.StringSliceVar(&opts.labels, "label", nil, "filter by label name or id (any match)")
	flags.StringVarP(&opts.priority, "priority", "p", "", "filter by priority")
	flags.StringVarP(&opts.status, "status", "s", "", "filter by status")
	flags.StringVar(&opts.parent, "parent", "", "filter by parent task id, or none for top-level tasks")
	flags.StringVar(&opts.date, "date", "", "exact date (YYYY-MM-DD)")
	flags.StringVar(&opts.from, "from", "", "start date inclusive (YYYY-MM-DD)")
	flags.StringVar(&opts.to, "to", "", "end date inclusive (YYYY-MM-DD)")
	flags.StringVarP(&opts.search, "query", "q", "", "substring match on name and description")
	flags.IntVar(&opts.limit, "limit", 0, "maximum tasks to return")
	flags.IntVar(&opts.offset, "offset", 0, "tasks to skip")

	return cmd
}

func buildListQuery(opts *lsCmdOptions, labelIDs []int64) url.Values {
	query := url.Values{}
	setIfNotEmpty(query, "view", opts.view)
	if opts.hideCompleted {
		query.Set("showCompleted", "false")
	}
	if opts.listID > 0 {
		query.Set("list_id", strconv.FormatInt(opts.listID, 10))
	}
	if len(labelIDs) > 0 {
		parts := make([]string, 0, len(labelIDs))
		for _, id := range labelIDs {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		query.Set("label_ids", strings.Join(parts, ","))
	}
	setIfNotEmpty(query, "priority", opts.priority)
	setIfNotEmpty(query, "status", opts.status)
	setIfNotEmpty(query, "parent_id", opts.parent)
	setIfNotEmpty(query, "date", opts.date)
	setIfNotEmpty(query, "start_date", opts.from)
	setIfNotEmpty(query, "end_date", opts.to)
	setIfNotEmpty(query, "q", opts.search)
	if opts.limit > 0 {
		query.Set("limit", intToString(opts.limit))
	}
	if opts.offset > 0 {
		query.Set("offset", intToString(opts.offset))
	}
	return query
}
