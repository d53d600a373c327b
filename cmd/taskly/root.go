package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskly/internal/config"
	"taskly/internal/format"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		yamlOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "taskly",
		Short:         "Taskly is a personal task manager with lists, labels and views",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), warning)
			}
			if yamlOutput {
				outputFormatter = format.YAMLFormatter{}
				jsonOutput = true
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newAddCmd(cfg, &jsonOutput),
		newLsCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newUpdateCmd(cfg, &jsonOutput),
		newDoneCmd(cfg, &jsonOutput),
		newReopenCmd(cfg, &jsonOutput),
		newRmCmd(cfg, &jsonOutput),
		newDeletedCmd(cfg, &jsonOutput),
		newSearchCmd(cfg, &jsonOutput),
		newOverdueCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newLabelCmd(cfg, &jsonOutput),
		newRemindCmd(cfg, &jsonOutput),
		newAttachCmd(cfg, &jsonOutput),
		newInfoCmd(cfg, &jsonOutput),
		newConfigCmd(cfg, &jsonOutput),
		newMigrateCmd(cfg, &jsonOutput),
	)

	return cmd
}
