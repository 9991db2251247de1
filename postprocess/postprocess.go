// Package postprocess transforms resolved template text before it is written.
//
// A script instantiation action hands the output path and the resolved content
// to a Chain; each Processor decides from the path whether it applies:
//
//	chain := postprocess.NewChain()
//	chain.Add(processors.NewGoImports())
//	action, err := builder.InstantiateScript(src, "Widget", nil, builder.WithPostProcessor(chain))
package postprocess

import "fmt"

// Processor returns content unchanged for files it does not handle.
type Processor interface {
	ProcessContent(filePath string, content []byte) ([]byte, error)
}

type ProcessorFunc func(filePath string, content []byte) ([]byte, error)

func (f ProcessorFunc) ProcessContent(filePath string, content []byte) ([]byte, error) {
	return f(filePath, content)
}

// Chain applies processors in the order they were added. A Chain is itself a
// Processor, so chains nest.
type Chain struct {
	processors []Processor
}

func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: append([]Processor(nil), processors...)}
}

func (c *Chain) Add(processor Processor) {
	c.processors = append(c.processors, processor)
}

func (c *Chain) AddFunc(fn func(filePath string, content []byte) ([]byte, error)) {
	c.processors = append(c.processors, ProcessorFunc(fn))
}

// ProcessContent stops at the first failing processor.
func (c *Chain) ProcessContent(filePath string, content []byte) ([]byte, error) {
	result := content
	for i, processor := range c.processors {
		processed, err := processor.ProcessContent(filePath, result)
		if err != nil {
			return nil, fmt.Errorf("processor %d failed for %s: %w", i, filePath, err)
		}
		result = processed
	}
	return result, nil
}

func (c *Chain) Len() int {
	return len(c.processors)
}
