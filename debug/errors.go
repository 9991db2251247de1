package debug

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/cpcf/boilerplate/errkind"
)

type ErrorContext struct {
	Operation    string         `json:"operation"`
	TemplatePath string         `json:"template_path,omitempty"`
	OutputPath   string         `json:"output_path,omitempty"`
	Kind         string         `json:"kind,omitempty"`
	Payload      string         `json:"payload,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	Suggestions  []string       `json:"suggestions,omitempty"`
}

// EnhancedError decorates a failure with what the operator was doing and
// what is likely to fix it.
type EnhancedError struct {
	originalError error
	context       *ErrorContext
}

// Describe wraps err for display. Errors carrying an errkind get the kind,
// payload and matching suggestions filled in.
func Describe(err error, operation string) *EnhancedError {
	if err == nil {
		return nil
	}

	ctx := &ErrorContext{
		Operation: operation,
		Context:   make(map[string]any),
	}
	if kind, ok := errkind.Of(err); ok {
		ctx.Kind = kind.String()
		ctx.Payload = errkind.PayloadOf(err)
	}
	ctx.Suggestions = Suggest(err)

	return &EnhancedError{originalError: err, context: ctx}
}

func (ee *EnhancedError) Error() string {
	return ee.originalError.Error()
}

func (ee *EnhancedError) Unwrap() error {
	return ee.originalError
}

func (ee *EnhancedError) WithTemplate(path string) *EnhancedError {
	ee.context.TemplatePath = path
	return ee
}

func (ee *EnhancedError) WithOutput(path string) *EnhancedError {
	ee.context.OutputPath = path
	return ee
}

func (ee *EnhancedError) WithContext(key string, value any) *EnhancedError {
	ee.context.Context[key] = value
	return ee
}

func (ee *EnhancedError) WithSuggestion(suggestion string) *EnhancedError {
	ee.context.Suggestions = append(ee.context.Suggestions, suggestion)
	return ee
}

func (ee *EnhancedError) GetContext() *ErrorContext {
	return ee.context
}

func (ee *EnhancedError) FormatDetailed() string {
	var builder strings.Builder

	ee.writeBasicInfo(&builder)
	ee.writeLocationInfo(&builder)
	ee.writeContextData(&builder)
	ee.writeSuggestions(&builder)

	return builder.String()
}

func (ee *EnhancedError) writeBasicInfo(builder *strings.Builder) {
	builder.WriteString(fmt.Sprintf("Error: %s\n", ee.originalError.Error()))
	builder.WriteString(fmt.Sprintf("Operation: %s\n", ee.context.Operation))
	if ee.context.Kind != "" {
		builder.WriteString(fmt.Sprintf("Kind: %s\n", ee.context.Kind))
	}
	if ee.context.Payload != "" {
		builder.WriteString(fmt.Sprintf("Offending value: %q\n", ee.context.Payload))
	}
}

func (ee *EnhancedError) writeLocationInfo(builder *strings.Builder) {
	if ee.context.TemplatePath != "" {
		builder.WriteString(fmt.Sprintf("Template: %s\n", ee.context.TemplatePath))
	}
	if ee.context.OutputPath != "" {
		builder.WriteString(fmt.Sprintf("Output: %s\n", ee.context.OutputPath))
	}
}

func (ee *EnhancedError) writeContextData(builder *strings.Builder) {
	if len(ee.context.Context) == 0 {
		return
	}

	builder.WriteString("\nContext:\n")
	keys := make([]string, 0, len(ee.context.Context))
	for k := range ee.context.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		builder.WriteString(fmt.Sprintf("  %s: %v\n", key, ee.context.Context[key]))
	}
}

func (ee *EnhancedError) writeSuggestions(builder *strings.Builder) {
	if len(ee.context.Suggestions) == 0 {
		return
	}

	builder.WriteString("\nSuggestions:\n")
	for i, suggestion := range ee.context.Suggestions {
		builder.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion))
	}
}

// Suggest returns hints for err, most specific first.
func Suggest(err error) []string {
	if err == nil {
		return nil
	}

	var suggestions []string
	payload := errkind.PayloadOf(err)

	switch kind, _ := errkind.Of(err); kind {
	case errkind.InvalidMarker:
		suggestions = append(suggestions,
			fmt.Sprintf("Marker %q is not a key: keys start with an uppercase letter and use A-Z, 0-9 and _", payload),
			"Write ## for a literal # character")
	case errkind.UnresolvedKey:
		suggestions = append(suggestions,
			fmt.Sprintf("Add a replacement for %s, for example --set %s=value", payload, payload),
			"SCRIPTNAME, NAME and SCRIPTNAME_LOWER are filled in from the target name")
	case errkind.InvalidName:
		suggestions = append(suggestions,
			fmt.Sprintf("Directory name %q must be letters and digits joined by single '.', '_' or '-'", payload))
	case errkind.NotADirectory:
		suggestions = append(suggestions,
			fmt.Sprintf("A file already exists at %s; rename it or choose another directory", payload))
	case errkind.DirectoryNotFound:
		suggestions = append(suggestions,
			fmt.Sprintf("Create %s first or drop must_exist from the plan", payload))
	case errkind.UnbalancedScopeExit:
		suggestions = append(suggestions,
			"Every directory entered must be left exactly once")
	}

	if errors.Is(err, fs.ErrNotExist) {
		suggestions = append(suggestions, "Check that the template or plan path exists")
	}
	if errors.Is(err, fs.ErrPermission) {
		suggestions = append(suggestions, "Ensure the output directory is writable")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Run again with -vv for more detailed output")
	}
	return suggestions
}
