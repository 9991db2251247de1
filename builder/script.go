package builder

import (
	"errors"
	"fmt"
	"maps"
	"path"

	"github.com/cpcf/boilerplate/postprocess"
	"github.com/cpcf/boilerplate/replacer"
	"github.com/cpcf/boilerplate/templates"
)

type scriptConfig struct {
	policy    replacer.Policy
	processor postprocess.Processor
}

type ScriptOption func(*scriptConfig)

// WithPolicy sets how incomplete markers are treated. The default is
// replacer.Lenient.
func WithPolicy(policy replacer.Policy) ScriptOption {
	return func(c *scriptConfig) {
		c.policy = policy
	}
}

// WithPostProcessor runs resolved text through p before it is written.
func WithPostProcessor(p postprocess.Processor) ScriptOption {
	return func(c *scriptConfig) {
		c.processor = p
	}
}

// ScriptFileName derives the produced file name: target plus everything after
// the first dot of the source name ("Thing.cs" + "Widget" gives "Widget.cs").
func ScriptFileName(sourceName, target string) string {
	if ext := templates.PayloadExtension(sourceName); ext != "" {
		return target + "." + ext
	}
	return target
}

// InstantiateScript returns an action that writes src into the current
// directory as a file named after target. The template sees replacements plus
// SCRIPTNAME, NAME and SCRIPTNAME_LOWER derived from target.
func InstantiateScript(src templates.Source, target string, replacements map[string]string, opts ...ScriptOption) (Action, error) {
	if src == nil {
		return nil, errors.New("template source is nil")
	}
	if target == "" {
		return nil, errors.New("target script name is empty")
	}

	cfg := scriptConfig{policy: replacer.Lenient}
	for _, opt := range opts {
		opt(&cfg)
	}

	fileName := ScriptFileName(src.Name(), target)
	captured := maps.Clone(replacements)
	text := src.Text()

	return func(b *Builder, dir string) error {
		fullPath := path.Join(dir, fileName)
		b.Logger().Info("instantiating template", "template", src.Name(), "target", fullPath)

		mapping := replacer.ExpandScriptVariables(target, captured)
		content, err := replacer.Resolve(text, mapping, cfg.policy)
		if err != nil {
			return fmt.Errorf("failed to resolve %s for %s: %w", src.Name(), fullPath, err)
		}

		if cfg.processor != nil {
			processed, err := cfg.processor.ProcessContent(fullPath, []byte(content))
			if err != nil {
				return fmt.Errorf("failed to post-process %s: %w", fullPath, err)
			}
			content = string(processed)
		}

		if err := b.Store().WriteTextFile(fullPath, content); err != nil {
			return err
		}
		b.Store().Refresh()
		return nil
	}, nil
}
