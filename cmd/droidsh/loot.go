package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/pkg/loot"
	"github.com/cgast/droidsh/pkg/render"
)

func newLootCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loot",
		Short: "Inspect stored loot",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List what the configured loot store holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listLoot(cmd, flags)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showLoot(cmd, flags, args[0])
		},
	})
	return cmd
}

func showLoot(cmd *cobra.Command, flags *globalFlags, id string) error {
	s, err := loadSetup(cmd, flags)
	if err != nil {
		return err
	}
	defer s.close()

	store, err := loot.Open(s.cfg.Loot)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no loot store is configured")
	}
	defer loot.Close(store)

	g, ok := store.(loot.Getter)
	if !ok {
		return fmt.Errorf("the %s loot backend cannot return stored items", s.cfg.Loot.Backend)
	}
	data, err := g.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	s.out.Raw(string(data))
	return nil
}

func listLoot(cmd *cobra.Command, flags *globalFlags) error {
	s, err := loadSetup(cmd, flags)
	if err != nil {
		return err
	}
	defer s.close()

	store, err := loot.Open(s.cfg.Loot)
	if err != nil {
		return err
	}
	if store == nil {
		s.out.Status("No loot store is configured")
		return nil
	}
	defer loot.Close(store)

	recs, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	t := render.NewTable("Loot ("+s.cfg.Loot.Backend+")", "Created", "Kind", "Label", "Size", "Location")
	for _, r := range recs {
		t.AddRow(render.FormatTime(r.CreatedAt), r.Kind, r.Label, strconv.Itoa(r.Size), r.Location)
	}
	s.out.Table(t)
	return nil
}
