package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cpcf/boilerplate/asset"
	"github.com/cpcf/boilerplate/builder"
	"github.com/cpcf/boilerplate/debug"
	"github.com/cpcf/boilerplate/plan"
	"github.com/cpcf/boilerplate/write"
)

func newApplyCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply <plan>",
		Short: "Create the folders and files described by a YAML or TOML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return debug.Describe(err, "apply").WithContext("plan", args[0])
			}

			fs := a.projectFs()
			var opts []asset.Option
			var recorder *write.DryRunWriter
			if dryRun {
				// Changes land in memory; the project is only read.
				fs = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fs), afero.NewMemMapFs())
				recorder = write.NewDryRunWriter(write.NewFSWriter(fs))
				opts = append(opts, asset.WithWriter(recorder))
			}

			b := builder.New(a.store(fs, opts...),
				builder.WithLogger(a.logger()),
				builder.WithRoot(a.settings.Root))

			err = p.Apply(b, p.Library(),
				builder.WithPolicy(a.settings.Policy()),
				builder.WithPostProcessor(a.processor()))
			if err != nil {
				return debug.Describe(err, "apply").
					WithContext("plan", args[0]).
					WithContext("directory", b.Path())
			}

			out := cmd.OutOrStdout()
			if recorder != nil {
				for _, change := range recorder.GetChanges() {
					fmt.Fprintf(out, "%-9s %s (%d bytes)\n", change.Action, change.Path, change.Size)
				}
				return nil
			}
			fmt.Fprintf(out, "applied %s to %s\n", args[0], a.settings.Root)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the files that would be written without touching the project")
	return cmd
}
