// Package builder materializes a directory layout through a fluent, stack
// based controller.
//
// A Builder tracks the current directory as a stack of name segments below a
// fixed root. Navigate pushes a segment, creating the folder when it is absent,
// Leave pops it, and Run invokes scoped actions with the current directory:
//
//	b := builder.New(store)
//	b.Navigate("Game").
//		Navigate("Objects").Leave().
//		Navigate("Maps").Run(action).Leave().
//		Leave()
//	if err := b.Err(); err != nil {
//		return err
//	}
//
// Every mutator returns the same Builder. The first failure is kept and
// returned by Err, and every later call becomes a no-op, so a chain stops at the
// first mistake instead of producing a half-built layout.
package builder

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/cpcf/boilerplate/asset"
	"github.com/cpcf/boilerplate/errkind"
)

// DefaultRoot is the directory every context stack is relative to.
const DefaultRoot = "Assets"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9]+([._-][A-Za-z0-9]+)*$`)

// ValidName reports whether name is one or more alphanumeric runs joined by
// single '.', '_' or '-' characters.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Action is a unit of work run inside the current directory. dir is the fully
// resolved directory path, root included.
type Action func(b *Builder, dir string) error

type Builder struct {
	store   asset.Store
	logger  *slog.Logger
	root    string
	context []string
	err     error
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func WithRoot(root string) Option {
	return func(b *Builder) {
		b.root = root
	}
}

func New(store asset.Store, opts ...Option) *Builder {
	b := &Builder{
		store:  store,
		logger: slog.Default(),
		root:   DefaultRoot,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type navigateConfig struct {
	makeIfAbsent bool
}

type NavigateOption func(*navigateConfig)

// MakeIfAbsent controls whether Navigate creates a missing directory. It
// defaults to true; with false a missing directory fails with
// errkind.DirectoryNotFound.
func MakeIfAbsent(create bool) NavigateOption {
	return func(c *navigateConfig) {
		c.makeIfAbsent = create
	}
}

// Navigate enters the subdirectory name of the current directory.
func (b *Builder) Navigate(name string, opts ...NavigateOption) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.navigate(name, opts)
	return b
}

func (b *Builder) navigate(name string, opts []NavigateOption) error {
	cfg := navigateConfig{makeIfAbsent: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	name = strings.TrimSpace(name)
	if !ValidName(name) {
		return errkind.New(errkind.InvalidName, name)
	}

	current := b.Path()
	target := path.Join(current, name)

	kind, err := b.store.Lookup(target)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", target, err)
	}

	switch kind {
	case asset.Directory:
		b.logger.Info("using directory", "parent", current, "name", name)
	case asset.File:
		return errkind.New(errkind.NotADirectory, target)
	default:
		if !cfg.makeIfAbsent {
			return errkind.New(errkind.DirectoryNotFound, target)
		}
		b.logger.Info("creating directory", "parent", current, "name", name)
		if err := b.store.CreateDirectory(current, name); err != nil {
			return fmt.Errorf("failed to create %s: %w", target, err)
		}
	}

	b.context = append(b.context, name)
	return nil
}

// Leave returns to the parent directory. Leaving the root fails with
// errkind.UnbalancedScopeExit.
func (b *Builder) Leave() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.context) == 0 {
		b.err = errkind.New(errkind.UnbalancedScopeExit, b.Path())
		return b
	}
	b.context = b.context[:len(b.context)-1]
	return b
}

// Run invokes actions in order with the current directory. The first failing
// action stops the batch. Nil actions are rejected before any action runs.
func (b *Builder) Run(actions ...Action) *Builder {
	if b.err != nil {
		return b
	}
	for i, action := range actions {
		if action == nil {
			b.err = fmt.Errorf("action %d is nil", i)
			return b
		}
	}

	dir := b.Path()
	for i, action := range actions {
		if err := action(b, dir); err != nil {
			b.err = fmt.Errorf("action %d in %s: %w", i, dir, err)
			return b
		}
	}
	return b
}

// Within navigates into name, calls fn and leaves again. fn must leave the
// stack as it found it; otherwise the builder fails with
// errkind.UnbalancedScopeExit.
func (b *Builder) Within(name string, fn func(*Builder), opts ...NavigateOption) *Builder {
	if b.Navigate(name, opts...).err != nil {
		return b
	}

	depth := len(b.context)
	scope := b.Path()
	fn(b)
	if b.err != nil {
		return b
	}
	if len(b.context) != depth || b.Path() != scope {
		b.err = errkind.New(errkind.UnbalancedScopeExit, scope)
		return b
	}
	return b.Leave()
}

// Err returns the first failure recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// Reset clears the context stack and any recorded failure.
func (b *Builder) Reset() *Builder {
	b.context = nil
	b.err = nil
	return b
}

// Path returns the root joined with the current context.
func (b *Builder) Path() string {
	return path.Join(append([]string{b.root}, b.context...)...)
}

func (b *Builder) Depth() int {
	return len(b.context)
}

// Context returns a copy of the directory segments below the root.
func (b *Builder) Context() []string {
	return append([]string(nil), b.context...)
}

func (b *Builder) Store() asset.Store {
	return b.store
}

func (b *Builder) Logger() *slog.Logger {
	return b.logger
}
