package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskly/internal/blobstore"
	"taskly/internal/config"
	"taskly/internal/server"
	"taskly/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the taskly API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			level, err := parseLogLevel(cfg.LogLevel)
			if err != nil {
				level, _ = parseLogLevel(config.DefaultLogLevel)
			}

			out := serverLogWriter(cfg.LogFile)
			defer out.Close()
			logger := newLogger(out, level).With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			disk, err := blobstore.NewDisk(cfg.Attachments.Dir, cfg.Attachments.MaxUploadBytes)
			if err != nil {
				return err
			}
			logger.Info("attachment storage ready", "dir", disk.Root(), "timezone", loc.String())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(addr, st, disk, logger, server.Options{
				Location:           loc,
				MaxUploadBytes:     cfg.Attachments.MaxUploadBytes,
				MultipartMaxMemory: cfg.Attachments.MultipartMaxMemory,
			})
			return srv.ListenAndServe(ctx)
		},
	}
}
