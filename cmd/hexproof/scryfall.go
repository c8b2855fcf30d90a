package main

import (
	"github.com/Sternrassler/hexproof-client/pkg/scryfall"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newScryfallCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scryfall",
		Short: "Fetch Scryfall resources",
	}

	fetcher := func() *scryfall.Fetcher {
		f := scryfall.NewFetcher(a.client)
		f.BaseURL = a.cfg.URLs.Scryfall
		return f
	}

	setRow := func(s scryfall.Set) table.Row {
		return table.Row{s.Code, s.Name, s.SetType, deref(s.ReleasedAt), s.CardCount}
	}
	setHeader := table.Row{"Code", "Name", "Type", "Released", "Cards"}

	cmd.AddCommand(&cobra.Command{
		Use:   "set CODE",
		Short: "Fetch one set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := fetcher().GetSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(set, setHeader, []table.Row{setRow(*set)})
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
				rows = append(rows, setRow(s))
			}
			return a.render(sets, setHeader, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search QUERY",
		Short: "Search cards with Scryfall syntax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := fetcher().SearchCards(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(cards))
			for _, c := range cards {
				rows = append(rows, table.Row{c.Name, c.Set, c.CollectorNumber, c.Rarity, c.TypeLine})
			}
			return a.render(cards, table.Row{"Name", "Set", "Number", "Rarity", "Type"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save PATH",
		Short: "Save the raw set list to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := fetcher().SaveSetList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(map[string]string{"path": path},
				table.Row{"Path"},
				[]table.Row{{path}})
		},
	})

	return cmd
}
