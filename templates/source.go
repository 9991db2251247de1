// Package templates loads the raw template sources handed to the builder's
// script instantiation action.
package templates

import (
	"path"
	"strings"
)

// Source is a read-only template: a possibly dotted name such as "Thing.cs"
// and the raw body.
type Source interface {
	Name() string
	Text() string
}

type source struct {
	name string
	text string
}

func NewSource(name, text string) Source {
	return &source{name: name, text: text}
}

func (s *source) Name() string { return s.name }
func (s *source) Text() string { return s.text }

// NameFromPath derives a source name from a template file path by dropping the
// directory and the final extension: "tmpl/Script.cs.txt" becomes "Script.cs".
func NameFromPath(p string) string {
	base := path.Base(p)
	if ext := path.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// PayloadExtension returns everything after the first dot of a source name,
// or "" when the name has no dot.
func PayloadExtension(name string) string {
	_, ext, ok := strings.Cut(name, ".")
	if !ok {
		return ""
	}
	return ext
}
