package main

import (
	"fmt"
	"io"
	"os"

	"taskly/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Stderr))
}

func run(stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "taskly: %v\n", err)
		return 1
	}
	if path := cfg.TrustedProjectConfigPath; path != "" {
		fmt.Fprintf(stderr, "warning: applying project config %s\n", path)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		for _, line := range formatCLIError(err) {
			fmt.Fprintln(stderr, line)
		}
		return 1
	}
	return 0
}
