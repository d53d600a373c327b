package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
	"taskly/internal/models"
)

func newRemindCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Manage task reminders",
	}

	cmd.AddCommand(
		newRemindAddCmd(cfg, jsonOutput),
		newRemindDueCmd(cfg, jsonOutput),
		newRemindSentCmd(cfg, jsonOutput),
		newRemindRmCmd(cfg, jsonOutput),
	)
	return cmd
}

func newRemindAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "add <task-id> <when>",
		Short: "Add a reminder; when is RFC3339 or a duration such as 2h",
		Args:  requireExactlyArgs(2, "task id and time are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			at, err := parseRemindAt(args[1], time.Now(), loc)
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *api.Client) error {
				reminder, err := client.AddReminder(cmd.Context(), taskID, api.ReminderCreateRequest{RemindAt: at, Message: message})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(reminder)
				}
				return writePlain("%s\n", formatReminderLine(reminder))
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "reminder message")
	return cmd
}

func newRemindDueCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List unsent reminders that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				reminders, err := client.DueReminders(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(reminders)
				}
				for _, r := range reminders {
					if err := writePlain("%s\n", formatReminderLine(r)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRemindSentCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sent <reminder-id>",
		Short: "Mark a reminder as sent",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				reminder, err := client.MarkReminderSent(cmd.Context(), id)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(reminder)
				}
				return writePlain("%s\n", formatReminderLine(reminder))
			})
		},
	}
}

func newRemindRmCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <reminder-id>",
		Short: "Delete a reminder",
		Args:  requireOneID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeleteReminder(cmd.Context(), id); err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(api.SuccessResponse{Success: true})
				}
				return writePlain("deleted reminder %d\n", id)
			})
		},
	}
}

// parseRemindAt accepts RFC3339, a local "YYYY-MM-DD HH:MM", or a duration
// relative to now.
func parseRemindAt(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("reminder time is required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(models.DateLayout+" 15:04", value, loc); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return now.Add(d).UTC().Truncate(time.Second), nil
	}
	return time.Time{}, fmt.Errorf("invalid reminder time %q", raw)
}

func formatReminderLine(r models.Reminder) string {
	line := fmt.Sprintf("#%d task #%d at %s", r.ID, r.TaskID, formatTime(r.RemindAt))
	if r.Message != "" {
		line += ": " + r.Message
	}
	if r.Sent {
		line += " (sent)"
	}
	return line
}
