package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpcf/boilerplate/debug"
	"github.com/cpcf/boilerplate/replacer"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <template>",
		Short: "List the replacement keys a template references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return debug.Describe(err, "inspect").WithTemplate(args[0])
			}

			keys, err := replacer.Keys(string(content))
			if err != nil {
				return debug.Describe(err, "inspect").WithTemplate(args[0])
			}

			a.logger().Debug("inspected template", "template", args[0], "keys", len(keys))
			for _, key := range keys {
				switch key {
				case replacer.ScriptName, replacer.Name, replacer.ScriptNameLower:
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(from --name)\n", key)
				default:
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
			}
			return nil
		},
	}
}
