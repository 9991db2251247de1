// Package plan describes a directory layout declaratively and applies it
// through a builder.
//
// A plan is a YAML or TOML document:
//
//	templates: templates
//	replacements:
//	  COMPANY: Acme
//	layout:
//	  - name: Game
//	    dirs:
//	      - name: Maps
//	        files:
//	          - template: MonoBehaviour.cs.txt
//	            name: Level
package plan

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpcf/boilerplate/builder"
	"github.com/cpcf/boilerplate/config"
	"github.com/cpcf/boilerplate/errkind"
	"github.com/cpcf/boilerplate/replacer"
	"github.com/cpcf/boilerplate/templates"
)

type Plan struct {
	// Templates is the template directory. Relative paths are resolved
	// against the plan file by Load; an empty value selects the built-in
	// templates.
	Templates    string            `yaml:"templates" toml:"templates"`
	Replacements map[string]string `yaml:"replacements" toml:"replacements"`
	Files        []File            `yaml:"files" toml:"files"`
	Layout       []Directory       `yaml:"layout" toml:"layout"`
}

type Directory struct {
	Name      string      `yaml:"name" toml:"name"`
	MustExist bool        `yaml:"must_exist" toml:"must_exist"`
	Files     []File      `yaml:"files" toml:"files"`
	Dirs      []Directory `yaml:"dirs" toml:"dirs"`
}

type File struct {
	Template     string            `yaml:"template" toml:"template"`
	Name         string            `yaml:"name" toml:"name"`
	Replacements map[string]string `yaml:"replacements" toml:"replacements"`
	Strict       bool              `yaml:"strict" toml:"strict"`
}

// Load reads a plan file; the format follows the extension.
func Load(path string) (*Plan, error) {
	var p Plan
	if err := config.Load(path, &p); err != nil {
		return nil, err
	}
	if p.Templates != "" && !filepath.IsAbs(p.Templates) {
		p.Templates = filepath.Join(filepath.Dir(path), p.Templates)
	}
	return &p, nil
}

// Library opens the plan's template directory.
func (p *Plan) Library(opts ...templates.LibraryOption) *templates.Library {
	if p.Templates == "" {
		return templates.Builtin(opts...)
	}
	return templates.NewLibrary(os.DirFS(p.Templates), opts...)
}

// Validate reports every problem in the plan at once.
func (p *Plan) Validate() error {
	var errs []error
	errs = append(errs, validateReplacements("plan", p.Replacements)...)
	errs = append(errs, validateFiles("plan", p.Files)...)
	for i, d := range p.Layout {
		errs = append(errs, d.validate(fmt.Sprintf("layout[%d]", i))...)
	}
	return errors.Join(errs...)
}

func (d Directory) validate(where string) []error {
	var errs []error
	if name := strings.TrimSpace(d.Name); !builder.ValidName(name) {
		errs = append(errs, fmt.Errorf("%s: invalid directory name %q", where, d.Name))
	} else {
		where = where + " (" + name + ")"
	}
	errs = append(errs, validateFiles(where, d.Files)...)
	for i, sub := range d.Dirs {
		errs = append(errs, sub.validate(fmt.Sprintf("%s.dirs[%d]", where, i))...)
	}
	return errs
}

func validateFiles(where string, files []File) []error {
	var errs []error
	for i, f := range files {
		at := fmt.Sprintf("%s.files[%d]", where, i)
		if f.Template == "" {
			errs = append(errs, fmt.Errorf("%s: template is required", at))
		}
		if !builder.ValidName(f.Name) {
			errs = append(errs, fmt.Errorf("%s: invalid script name %q", at, f.Name))
		}
		errs = append(errs, validateReplacements(at, f.Replacements)...)
	}
	return errs
}

func validateReplacements(where string, replacements map[string]string) []error {
	var errs []error
	for key := range replacements {
		if !replacer.IsKey(key) {
			errs = append(errs, fmt.Errorf("%s: invalid replacement key %q", where, key))
		}
	}
	return errs
}

type step struct {
	name     string
	navigate []builder.NavigateOption
	actions  []builder.Action
	children []step
}

// Apply materializes the plan below the builder's current directory. Every
// template is loaded and checked for malformed markers and missing keys before
// the first directory is touched, so such mistakes leave the project
// unchanged. opts apply to every file; a file
// marked strict always resolves with replacer.Strict.
func (p *Plan) Apply(b *builder.Builder, lib *templates.Library, opts ...builder.ScriptOption) error {
	if err := p.Validate(); err != nil {
		return err
	}

	root, err := p.compileFiles(lib, p.Files, opts)
	if err != nil {
		return err
	}
	dirs := make([]step, 0, len(p.Layout))
	for _, d := range p.Layout {
		s, err := p.compile(lib, d, opts)
		if err != nil {
			return err
		}
		dirs = append(dirs, s)
	}

	b.Run(root...)
	for _, s := range dirs {
		run(b, s)
	}
	return b.Err()
}

func run(b *builder.Builder, s step) {
	b.Within(s.name, func(b *builder.Builder) {
		b.Run(s.actions...)
		for _, child := range s.children {
			run(b, child)
		}
	}, s.navigate...)
}

func (p *Plan) compile(lib *templates.Library, d Directory, opts []builder.ScriptOption) (step, error) {
	s := step{name: d.Name}
	if d.MustExist {
		s.navigate = append(s.navigate, builder.MakeIfAbsent(false))
	}

	actions, err := p.compileFiles(lib, d.Files, opts)
	if err != nil {
		return step{}, err
	}
	s.actions = actions

	for _, sub := range d.Dirs {
		child, err := p.compile(lib, sub, opts)
		if err != nil {
			return step{}, err
		}
		s.children = append(s.children, child)
	}
	return s, nil
}

func (p *Plan) compileFiles(lib *templates.Library, files []File, opts []builder.ScriptOption) ([]builder.Action, error) {
	actions := make([]builder.Action, 0, len(files))
	for _, f := range files {
		src, err := lib.Get(f.Template)
		if err != nil {
			return nil, err
		}

		replacements := maps.Clone(p.Replacements)
		if replacements == nil {
			replacements = make(map[string]string, len(f.Replacements))
		}
		maps.Copy(replacements, f.Replacements)

		if err := checkKeys(src, f.Name, replacements); err != nil {
			return nil, fmt.Errorf("template %s: %w", f.Template, err)
		}

		fileOpts := opts
		if f.Strict {
			fileOpts = append(append([]builder.ScriptOption(nil), opts...), builder.WithPolicy(replacer.Strict))
		}

		action, err := builder.InstantiateScript(src, f.Name, replacements, fileOpts...)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", f.Template, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func checkKeys(src templates.Source, target string, replacements map[string]string) error {
	keys, err := replacer.Keys(src.Text())
	if err != nil {
		return err
	}
	mapping := replacer.ExpandScriptVariables(target, replacements)
	for _, key := range keys {
		if _, ok := mapping[key]; !ok {
			return errkind.New(errkind.UnresolvedKey, key)
		}
	}
	return nil
}
