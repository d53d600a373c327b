package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskly/internal/config"
)

type configEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

func newConfigCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change configuration",
	}
	cmd.AddCommand(
		newConfigLsCmd(cfg, jsonOutput),
		newConfigGetCmd(cfg, jsonOutput),
		newConfigSetCmd(jsonOutput),
	)
	return cmd
}

func newConfigLsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Show every effective config value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := config.AllowedKeys()
			entries := make([]configEntry, 0, len(keys))
			for _, key := range keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				entries = append(entries, configEntry{Key: key, Value: value})
			}
			if *jsonOutput {
				return writeJSON(entries)
			}
			for _, entry := range entries {
				if err := writePlain("%s = %s\n", entry.Key, entry.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigGetCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one config value",
		Args:  requireExactlyArgs(1, "usage: taskly config get <key>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.IsAllowedKey(key) {
				return fmt.Errorf("unknown config key %q; known keys: %v", key, config.AllowedKeys())
			}
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(configEntry{Key: key, Value: value})
			}
			return writePlain("%s\n", value)
		},
	}
}

func newConfigSetCmd(jsonOutput *bool) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a config value to the project or global file",
		Args:  requireExactlyArgs(2, "usage: taskly config set <key> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathFn := config.ProjectPath
			if global {
				pathFn = config.GlobalPath
			}
			path, err := pathFn()
			if err != nil {
				return err
			}

			entry := configEntry{Key: args[0], Value: args[1], Path: path}
			if err := config.SetKey(path, entry.Key, entry.Value); err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(entry)
			}
			return writePlain("%s = %s (%s)\n", entry.Key, entry.Value, entry.Path)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "write to ~/.taskly.toml instead of ./.taskly.toml")
	return cmd
}
