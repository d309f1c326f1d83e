// Package reader turns source text into values.
package reader

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bshepherdson/mal/printer"
	. "github.com/bshepherdson/mal/types"
)

type MalReader struct {
	tokens []string
	index  int
}

func NewReader(tokens []string) *MalReader {
	return &MalReader{tokens, 0}
}

func (r *MalReader) Next() (string, bool) {
	t, ok := r.Peek()
	if !ok {
		return t, false
	}

	r.index++
	return t, true
}

func (r *MalReader) Peek() (string, bool) {
	if r.index >= len(r.tokens) {
		return "EOF", false
	}
	return r.tokens[r.index], true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v', ',':
		return true
	}
	return false
}

// Tokenize splits input into tokens. Comments and separators are dropped.
// A string missing its closing quote is still emitted as a token, so that
// the parser can report it.
func Tokenize(input string) []string {
	t := make([]string, 0, 16)
	for pos := 0; pos < len(input); {
		c := input[pos]
		switch {
		case isSpace(c):
			pos++

		case c == '~':
			if pos+1 < len(input) && input[pos+1] == '@' {
				t = append(t, "~@")
				pos += 2
			} else {
				t = append(t, "~")
				pos++
			}

		case strings.IndexByte("[]{}()'`^@", c) >= 0:
			t = append(t, string(c))
			pos++

		case c == '"':
			end := pos + 1
			for end < len(input) {
				if input[end] == '\\' {
					end += 2
					continue
				}
				end++
				if input[end-1] == '"' {
					break
				}
			}
			if end > len(input) {
				end = len(input)
			}
			t = append(t, input[pos:end])
			pos = end

		case c == ';':
			end := strings.IndexByte(input[pos:], '\n')
			if end < 0 {
				return t
			}
			pos += end

		default:
			end := pos + 1
			for end < len(input) {
				ce := input[end]
				if isSpace(ce) || strings.IndexByte("[]{}()'\"`;", ce) >= 0 {
					break
				}
				end++
			}
			t = append(t, input[pos:end])
			pos = end
		}
	}
	return t
}

// ReadStr parses the first form in input. Anything after it is ignored.
func ReadStr(input string) (Value, error) {
	tokens := Tokenize(input)
	if len(tokens) == 0 {
		return nil, &EmptyInputError{}
	}
	return ReadForm(NewReader(tokens))
}

// IsIncomplete reports whether err means the input stopped before the form
// was finished, so that more input could complete it.
func IsIncomplete(err error) bool {
	var ub *UnbalancedParenthesesError
	if errors.As(err, &ub) {
		return ub.EOF
	}
	var us *UnterminatedStringError
	return errors.As(err, &us)
}

var closers = map[string]bool{")": true, "]": true, "}": true}

func ReadForm(r *MalReader) (Value, error) {
	t, ok := r.Peek()
	if !ok {
		if r.index == 0 {
			return nil, &EmptyInputError{}
		}
		return nil, &UnbalancedParenthesesError{Expected: "form", EOF: true}
	}

	switch t {
	case "'":
		return nextWrapped(r, "quote")
	case "`":
		return nextWrapped(r, "quasiquote")
	case "~":
		return nextWrapped(r, "unquote")
	case "~@":
		return nextWrapped(r, "splice-unquote")
	case "@":
		return nextWrapped(r, "deref")
	case "^":
		return readWithMeta(r)
	case "(":
		items, err := readSeq(r, ")")
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil
	case "[":
		items, err := readSeq(r, "]")
		if err != nil {
			return nil, err
		}
		return NewVector(items...), nil
	case "{":
		return readHashmap(r)
	}

	if closers[t] {
		return nil, &UnbalancedParenthesesError{Got: t}
	}
	return readAtom(r)
}

func nextWrapped(r *MalReader, wrapper string) (Value, error) {
	r.Next()
	next, err := ReadForm(r)
	if err != nil {
		return nil, err
	}
	return NewList(Symbol(wrapper), next), nil
}

// ^meta value reads as (with-meta value meta).
func readWithMeta(r *MalReader) (Value, error) {
	r.Next()
	meta, err := ReadForm(r)
	if err != nil {
		return nil, err
	}
	value, err := ReadForm(r)
	if err != nil {
		return nil, err
	}
	return NewList(Symbol("with-meta"), value, meta), nil
}

func readSeq(r *MalReader, end string) ([]Value, error) {
	r.Next() // Skip the opener.
	ret := []Value{}
	for {
		t, ok := r.Peek()
		if !ok {
			return nil, &UnbalancedParenthesesError{Expected: end, EOF: true}
		}
		if t == end {
			r.Next()
			return ret, nil
		}
		if closers[t] {
			return nil, &UnbalancedParenthesesError{Expected: end, Got: t}
		}

		f, err := ReadForm(r)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
}

func readHashmap(r *MalReader) (Value, error) {
	items, err := readSeq(r, "}")
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, &SyntaxError{
			Form: printer.PrintStr(NewList(items...), true),
			Msg:  "hash-map literal needs an even number of forms",
		}
	}

	m := NewHashmap()
	for i := 0; i < len(items); i += 2 {
		m.Set(items[i], items[i+1])
	}
	return m, nil
}

func readAtom(r *MalReader) (Value, error) {
	t, ok := r.Next()
	if !ok {
		return nil, &UnbalancedParenthesesError{Expected: "atom", EOF: true}
	}
	if t == "" {
		return nil, &SyntaxError{Msg: "empty token"}
	}

	switch {
	case t[0] == '"':
		return readString(t)
	case isInteger(t):
		n, err := strconv.Atoi(t)
		if err != nil {
			return nil, &SyntaxError{Form: t, Msg: "integer out of range"}
		}
		return Integer(n), nil
	case t == "nil":
		return Nil, nil
	case t == "true":
		return True, nil
	case t == "false":
		return False, nil
	case t[0] == ':':
		return Keyword(t[1:]), nil
	}
	return Symbol(t), nil
}

func isInteger(t string) bool {
	if t[0] == '-' {
		t = t[1:]
	}
	if t == "" {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] < '0' || t[i] > '9' {
			return false
		}
	}
	return true
}

// readString unescapes a string token, which still carries its quotes.
func readString(t string) (Value, error) {
	if len(t) < 2 || t[len(t)-1] != '"' {
		return nil, &UnterminatedStringError{Token: t}
	}

	var b strings.Builder
	body := t[1 : len(t)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '\\':
			// A trailing backslash escapes the closing quote.
			if i+1 == len(body) {
				return nil, &UnterminatedStringError{Token: t}
			}
			i++
			if body[i] == 'n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte(body[i])
			}
		case '"':
			return nil, &UnterminatedStringError{Token: t}
		default:
			b.WriteByte(c)
		}
	}
	return String(b.String()), nil
}
