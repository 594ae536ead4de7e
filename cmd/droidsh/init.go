package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cgast/droidsh/internal/config"
)

// newInitCmd implements `droidsh init [path] [--force]`.
func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Long: `Write a starter config file. The format follows the extension: .toml
gets TOML, anything else YAML. Defaults to ` + config.DefaultPath + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteTemplate(path, force); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created %s\n", path)
			fmt.Fprintln(w, "Set agent.url (and agent.secret if the agent signs requests), then run:")
			fmt.Fprintf(w, "  droidsh --config %s console\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
