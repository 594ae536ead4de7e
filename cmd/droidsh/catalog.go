package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/pkg/render"
)

func newCatalogCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every console command and the capabilities it requires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := render.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(),
				useColor("auto", flags.noColor, cmd.OutOrStdout()))

			t := render.NewTable("Command Catalog", "Command", "Description", "Requires")
			for _, d := range newRegistry().Catalog() {
				t.AddRow(d.Name, d.Description, strings.Join(d.Requires, ", "))
			}
			out.Table(t)
			return nil
		},
	}
}
