package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ai4l/internal/registry"
	"ai4l/pkg/types"
)

func newModelsCmd(a *app) *cobra.Command {
	var (
		f      clientFlags
		local  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models and target modules a request may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := registry.Builtin()
			if !local {
				client, err := newClient(a, f.overlay(cmd, a.cfg.Client))
				if err != nil {
					return err
				}
				if cat, err = client.Catalog(cmd.Context()); err != nil {
					return err
				}
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cat)
			}
			return printCatalog(cmd, cat)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&local, "local", false, "print the built-in list without contacting the service")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printCatalog(cmd *cobra.Command, cat types.Catalog) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tNAME\tFAMILY\tPATH")
	for i, m := range cat.Models {
		id := m.ID
		if i == 0 {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, m.Name, dash(m.Family), dash(m.Path))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TARGET MODULE\tNAME")
	for _, t := range cat.TargetModules {
		fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Name)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
