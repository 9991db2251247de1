// Package cli implements the boilerplate command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cpcf/boilerplate/asset"
	"github.com/cpcf/boilerplate/config"
	"github.com/cpcf/boilerplate/debug"
	"github.com/cpcf/boilerplate/index"
	"github.com/cpcf/boilerplate/postprocess"
	"github.com/cpcf/boilerplate/processors"
	"github.com/cpcf/boilerplate/write"
)

var (
	version = "dev"
	commit  = "none"
)

type app struct {
	verbosity int
	dir       string
	userFile  string

	settings *config.Settings
	debug    *debug.DebugMode
}

// NewRootCmd builds a fresh command tree. Each call has its own state, so
// tests can execute several trees side by side.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{userFile: config.UserSettingsPath()})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "boilerplate",
		Short: "Scaffold project folders and files from #TOKEN# templates",
		Long: `boilerplate creates directory layouts and instantiates text templates
whose #KEY# markers are replaced with values from a plan or the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v DEBUG, -vv TRACE)")
	root.PersistentFlags().StringVar(&a.dir, "dir", ".", "Project directory")

	root.AddCommand(
		newApplyCmd(a),
		newRenderCmd(a),
		newInspectCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var ee *debug.EnhancedError
		if errors.As(err, &ee) {
			fmt.Fprint(stderr, ee.FormatDetailed())
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) setup(stderr io.Writer) error {
	settings, err := config.LoadSettings(a.dir, config.WithUserFile(a.userFile))
	if err != nil {
		return err
	}
	a.settings = settings

	level, err := debug.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	a.debug = debug.NewDebugMode(
		debug.WithLevel(debug.FromVerbosity(level, a.verbosity)),
		debug.WithOutput(stderr),
	)
	a.debug.Trace("settings loaded", "dir", a.dir, "root", settings.Root, "strict", settings.Strict)
	return nil
}

func (a *app) logger() *slog.Logger {
	return a.debug.Logger()
}

func (a *app) projectFs() afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), a.dir)
}

func (a *app) indexManager(fs afero.Fs) *index.Manager {
	return index.NewManager(fs, a.settings.Root,
		index.WithManifestPath(path.Join(a.settings.Root, a.settings.IndexFile)))
}

func (a *app) store(fs afero.Fs, opts ...asset.Option) *asset.FSStore {
	opts = append([]asset.Option{
		asset.WithLogger(a.logger()),
		asset.WithIndex(a.indexManager(fs)),
		asset.WithWriteOptions(write.Options{
			CreateDirs: true,
			Overwrite:  true,
			Atomic:     a.settings.Atomic,
			Backup:     a.settings.Backup,
		}),
	}, opts...)
	return asset.NewFSStore(fs, opts...)
}

func (a *app) processor() postprocess.Processor {
	chain := postprocess.NewChain()
	if a.settings.GoImports {
		chain.Add(processors.NewGoImports())
	}
	chain.Add(processors.TrailingNewline{})
	return chain
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "boilerplate version %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}
