package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show generated files that changed since the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := a.indexManager(a.projectFs())
			manifest, err := idx.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(manifest.Entries) == 0 {
				fmt.Fprintln(out, "no index found; run apply first")
				return nil
			}

			changed := 0
			for _, entry := range idx.List(manifest) {
				if entry.Dir {
					continue
				}
				dirty, err := idx.HasChanged(manifest, entry.Path)
				if err != nil {
					return err
				}
				if dirty {
					fmt.Fprintf(out, "modified  %s\n", entry.Path)
					changed++
				}
			}
			fmt.Fprintf(out, "%d of %d indexed entries modified (session %s)\n",
				changed, len(manifest.Entries), manifest.Session)
			return nil
		},
	}
}
