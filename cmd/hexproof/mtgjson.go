package main

import (
	"github.com/Sternrassler/hexproof-client/pkg/mtgjson"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newMTGJSONCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mtgjson",
		Short: "Fetch MTGJSON resources",
	}

	fetcher := func() *mtgjson.Fetcher {
		f := mtgjson.NewFetcher(a.client)
		f.BaseURL = a.cfg.URLs.MTGJSON
		return f
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "meta",
		Short: "Show the current MTGJSON build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meta, err := fetcher().GetMeta(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(meta,
				table.Row{"Version", "Date"},
				[]table.Row{{meta.Version, meta.Date}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set CODE",
		Short: "Fetch one set file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := fetcher().GetSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(set,
				table.Row{"Code", "Name", "Type", "Released", "Cards", "Tokens"},
				[]table.Row{{set.Code, set.Name, set.Type, set.ReleaseDate, len(set.Cards), len(set.Tokens)}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sets",
		Short: "List all sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sets, err := fetcher().GetSetList(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(sets))
			for _, s := range sets {
				rows = append(rows, table.Row{s.Code, s.Name, s.TotalSetSize})
			}
			return a.render(sets, table.Row{"Code", "Name", "Cards"}, rows)
		},
	})

	var dir string
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Download and expand every set file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.Dirs.MTGJSON
			}
			f := fetcher()
			meta, err := f.GetMeta(cmd.Context())
			if err != nil {
				return err
			}
			out, err := f.DownloadAllSets(cmd.Context(), dir)
			if err != nil {
				return err
			}
			a.logger.Info().Str("path", out).Str("version", meta.Version).Msg("MTGJSON sets synced")
			result := map[string]string{"version": meta.Version, "date": meta.Date, "path": out}
			return a.render(result,
				table.Row{"Version", "Date", "Path"},
				[]table.Row{{meta.Version, meta.Date, out}})
		},
	}
	sync.Flags().StringVar(&dir, "dir", "", "target directory (default dirs.mtgjson)")
	cmd.AddCommand(sync)

	return cmd
}
