package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpcf/boilerplate/replacer"
	"github.com/cpcf/boilerplate/templates"
)

func newListCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates and the keys they need",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := templates.Builtin()
			if dir != "" {
				lib = templates.NewLibrary(os.DirFS(dir))
			}

			paths, err := lib.List()
			if err != nil {
				return err
			}
			a.logger().Debug("listing templates", "dir", dir, "count", len(paths))

			out := cmd.OutOrStdout()
			for _, p := range paths {
				src, err := lib.Get(p)
				if err != nil {
					return err
				}
				keys, err := replacer.Keys(src.Text())
				if err != nil {
					fmt.Fprintf(out, "%s\t(invalid: %v)\n", p, err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", p, strings.Join(keys, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "templates", "", "Template directory (default: built-in templates)")
	return cmd
}
