package main

import (
	"github.com/spf13/cobra"

	"taskly/internal/api"
	"taskly/internal/config"
)

type infoResponse struct {
	APIURL        string `json:"api_url"`
	DBPath        string `json:"db_path"`
	Attachments   string `json:"attachments_dir"`
	Timezone      string `json:"timezone"`
	Status        string `json:"status"`
	SchemaVersion int    `json:"schema_version"`
}

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server health and storage locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				health, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}
				resp := infoResponse{
					APIURL:        cfg.APIURL,
					DBPath:        cfg.DBPath,
					Attachments:   cfg.Attachments.Dir,
					Timezone:      loc.String(),
					Status:        health.Status,
					SchemaVersion: health.SchemaVersion,
				}

				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("api_url: %s\ndb_path: %s\nattachments_dir: %s\ntimezone: %s\nstatus: %s\nschema_version: %d\n",
					resp.APIURL, resp.DBPath, resp.Attachments, resp.Timezone, resp.Status, resp.SchemaVersion)
			})
		},
	}
}
