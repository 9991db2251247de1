package templates

import (
	"embed"
	"io/fs"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin returns a library over the templates compiled into the binary.
func Builtin(opts ...LibraryOption) *Library {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return NewLibrary(sub, opts...)
}
