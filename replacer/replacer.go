// Package replacer resolves #KEY# markers in template text.
//
// A marker is a '#' followed by a run of word characters and a closing '#'.
// The inner text must satisfy the key grammar [A-Z][A-Z0-9_]*, and the key must
// be present in the replacement mapping. The empty marker "##" is an escape for
// a single '#'. A '#' run that is not closed, such as "#region", is an
// incomplete marker: it passes through unchanged under the Lenient policy and
// fails under Strict.
//
// Resolution is a whole-document operation. Substituted values are emitted
// verbatim and never re-scanned, and any error discards the output.
package replacer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cpcf/boilerplate/errkind"
)

// Policy selects how incomplete markers are handled.
type Policy int

const (
	// Lenient leaves incomplete markers in the output as plain text.
	Lenient Policy = iota
	// Strict fails with errkind.InvalidMarker on incomplete markers.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown incomplete marker policy %q", s)
	}
}

// Script variables added by ExpandScriptVariables.
const (
	ScriptName      = "SCRIPTNAME"
	Name            = "NAME"
	ScriptNameLower = "SCRIPTNAME_LOWER"
)

// Resolve replaces every marker in text using replacements.
func Resolve(text string, replacements map[string]string, policy Policy) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	err := scan(text, func(tok token) error {
		switch tok.kind {
		case tokenText:
			out.WriteString(tok.text)
		case tokenIncomplete:
			if policy == Strict {
				return errkind.New(errkind.InvalidMarker, tok.text)
			}
			out.WriteString(tok.text)
		case tokenEscape:
			out.WriteByte('#')
		case tokenKey:
			value, ok := replacements[tok.key]
			if !ok {
				return errkind.New(errkind.UnresolvedKey, tok.key)
			}
			out.WriteString(value)
		case tokenInvalid:
			return errkind.New(errkind.InvalidMarker, tok.text)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Keys lists the distinct keys referenced by text in order of first use.
// Incomplete markers are ignored; malformed complete markers are reported.
func Keys(text string) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)

	err := scan(text, func(tok token) error {
		switch tok.kind {
		case tokenKey:
			if !seen[tok.key] {
				seen[tok.key] = true
				keys = append(keys, tok.key)
			}
		case tokenInvalid:
			return errkind.New(errkind.InvalidMarker, tok.text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// IsKey reports whether s satisfies the key grammar [A-Z][A-Z0-9_]*.
func IsKey(s string) bool {
	if s == "" || !isUpper(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isUpper(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

// ExpandScriptVariables returns a copy of replacements with SCRIPTNAME, NAME
// and SCRIPTNAME_LOWER set from name. SCRIPTNAME_LOWER only lowers the first
// character: "FOOBar" becomes "fOOBar", not "fooBar".
func ExpandScriptVariables(name string, replacements map[string]string) map[string]string {
	expanded := make(map[string]string, len(replacements)+3)
	for k, v := range replacements {
		expanded[k] = v
	}

	expanded[ScriptName] = name
	expanded[Name] = name
	expanded[ScriptNameLower] = lowerFirst(name)
	return expanded
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
