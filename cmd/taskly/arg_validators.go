package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireAtLeastArgs and requireExactlyArgs replace cobra's built-in
// validators so usage errors read like the rest of the CLI output.
func requireAtLeastArgs(min int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) >= min {
			return nil
		}
		return fmt.Errorf("%s (got %d argument(s))", usage, len(args))
	}
}

func requireExactlyArgs(count int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) == count {
			return nil
		}
		return fmt.Errorf("%s (got %d argument(s))", usage, len(args))
	}
}

func requireAtLeastOneID(cmd *cobra.Command, args []string) error {
	return requireAtLeastArgs(1, "at least one task id is required")(cmd, args)
}

func requireOneID(cmd *cobra.Command, args []string) error {
	return requireExactlyArgs(1, "exactly one id is required")(cmd, args)
}
