package main

import (
	"github.com/Sternrassler/hexproof-client/pkg/vectors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newVectorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Fetch mtg-vectors set symbols",
	}

	var (
		current string
		force   bool
		dir     string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Download the symbol package when a newer manifest is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("current") {
				current = a.cfg.Vectors.Current
			}
			if dir == "" {
				dir = a.cfg.Dirs.Vectors
			}

			f := vectors.NewFetcher(a.client)
			f.BaseURL = a.cfg.URLs.Vectors
			f.AuthToken = a.cfg.Vectors.AuthToken

			manifest, changed, err := f.UpdateManifest(cmd.Context(), dir, current, force)
			if err != nil {
				return err
			}
			if changed {
				if _, err := f.GetPackage(cmd.Context(), dir, 0); err != nil {
					return err
				}
			}

			meta := manifest.MetaSchema()
			result := struct {
				vectors.MetaSchema
				Updated bool   `json:"updated"`
				Path    string `json:"path"`
			}{meta, changed, dir}
			return a.render(result,
				table.Row{"Resource", "Version", "Date", "Updated", "Path"},
				[]table.Row{{meta.Resource, meta.Version, meta.Date, changed, dir}})
		},
	}
	update.Flags().StringVar(&current, "current", "", "installed manifest version (default vectors.current)")
	update.Flags().BoolVar(&force, "force", false, "download even when the version is unchanged")
	update.Flags().StringVar(&dir, "dir", "", "target directory (default dirs.vectors)")
	cmd.AddCommand(update)

	return cmd
}
