package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cpcf/boilerplate/builder"
	"github.com/cpcf/boilerplate/debug"
	"github.com/cpcf/boilerplate/replacer"
	"github.com/cpcf/boilerplate/templates"
)

type renderOptions struct {
	name   string
	sets   []string
	strict bool
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Resolve a template and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replacements, err := parseSets(opts.sets)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return debug.Describe(err, "render").WithTemplate(args[0])
			}
			src := templates.NewSource(templates.NameFromPath(args[0]), string(content))

			policy := a.settings.Policy()
			if opts.strict {
				policy = replacer.Strict
			}

			mapping := replacer.ExpandScriptVariables(opts.name, replacements)
			out, err := replacer.Resolve(src.Text(), mapping, policy)
			if err != nil {
				return debug.Describe(err, "render").WithTemplate(args[0])
			}

			fileName := builder.ScriptFileName(src.Name(), opts.name)
			processed, err := a.processor().ProcessContent(fileName, []byte(out))
			if err != nil {
				return debug.Describe(err, "render").WithTemplate(args[0]).WithOutput(fileName)
			}

			a.logger().Debug("rendered template", "template", args[0], "output", fileName, "bytes", len(processed))
			_, err = cmd.OutOrStdout().Write(processed)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Script name used for SCRIPTNAME, NAME and SCRIPTNAME_LOWER")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Replacement as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on markers missing their closing #")
	cmd.MarkFlagRequired("name")
	return cmd
}

func parseSets(sets []string) (map[string]string, error) {
	replacements := make(map[string]string, len(sets))
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected KEY=VALUE", set)
		}
		if !replacer.IsKey(key) {
			return nil, fmt.Errorf("invalid --set %q: %q is not a valid key", set, key)
		}
		replacements[key] = value
	}
	return replacements, nil
}
