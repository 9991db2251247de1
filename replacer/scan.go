package replacer

import "strings"

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenIncomplete
	tokenEscape
	tokenKey
	tokenInvalid
)

type token struct {
	kind tokenKind
	text string
	key  string
}

// scan splits text into plain runs and marker candidates. A candidate is a '#'
// followed by word characters; it is complete only when the run stops at
// another '#', which then belongs to the candidate.
func scan(text string, emit func(token) error) error {
	for len(text) > 0 {
		start := strings.IndexByte(text, '#')
		if start < 0 {
			return emit(token{kind: tokenText, text: text})
		}
		if start > 0 {
			if err := emit(token{kind: tokenText, text: text[:start]}); err != nil {
				return err
			}
			text = text[start:]
		}

		end := 1
		for end < len(text) && isWord(text[end]) {
			end++
		}

		if end == len(text) || text[end] != '#' {
			if err := emit(token{kind: tokenIncomplete, text: text[:end]}); err != nil {
				return err
			}
			text = text[end:]
			continue
		}

		marker := text[:end+1]
		inner := text[1:end]
		var tok token
		switch {
		case inner == "":
			tok = token{kind: tokenEscape, text: marker}
		case IsKey(inner):
			tok = token{kind: tokenKey, text: marker, key: inner}
		default:
			tok = token{kind: tokenInvalid, text: marker}
		}
		if err := emit(tok); err != nil {
			return err
		}
		text = text[end+1:]
	}
	return nil
}

func isWord(c byte) bool {
	return isUpper(c) || isDigit(c) || c == '_' || ('a' <= c && c <= 'z')
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
