// Package processors holds postprocess.Processor implementations for common
// generated file types.
package processors

import (
	"fmt"
	"go/format"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// GoImports fixes imports and formats .go outputs, falling back to gofmt when
// goimports cannot process the file.
type GoImports struct {
	options imports.Options
}

func NewGoImports() *GoImports {
	return &GoImports{
		options: imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		},
	}
}

func (g *GoImports) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".go") {
		return content, nil
	}

	opts := g.options
	formatted, err := imports.Process(filePath, content, &opts)
	if err == nil {
		return formatted, nil
	}

	formatted, fmtErr := format.Source(content)
	if fmtErr != nil {
		return nil, fmt.Errorf("failed to format Go code with goimports (%w) and gofmt (%w)", err, fmtErr)
	}
	return formatted, nil
}

// TrailingNewline ensures every non-empty output ends with exactly one "\n".
type TrailingNewline struct{}

func (TrailingNewline) ProcessContent(_ string, content []byte) ([]byte, error) {
	if len(content) == 0 {
		return content, nil
	}
	trimmed := strings.TrimRight(string(content), "\r\n")
	return []byte(trimmed + "\n"), nil
}
