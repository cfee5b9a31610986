// Package payload models an untyped webhook body as a generic JSON tree.
//
// Values inside a Tree are exactly what encoding/json produces with UseNumber:
// nil, bool, json.Number, string, []any and map[string]any. Lookups never
// panic on missing or mistyped branches; they report absence instead.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 is returned for bodies that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("decode payload: invalid UTF-8")

	// ErrNULCharacter is returned when a string or key contains U+0000,
	// which Postgres text and jsonb columns cannot hold.
	ErrNULCharacter = errors.New("decode payload: string contains NUL character")
)

// Tree is a parsed webhook body together with the bytes it came from.
type Tree struct {
	root any
	raw  []byte
}

// Parse decodes body into a Tree. An empty (or whitespace-only) body is
// treated as an empty object. Trailing data after the first JSON value,
// invalid UTF-8 and NUL characters are rejected.
func Parse(body []byte) (Tree, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Tree{root: map[string]any{}, raw: []byte("{}")}, nil
	}
	if !utf8.Valid(trimmed) {
		return Tree{}, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return Tree{}, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Tree{}, errors.New("decode payload: unexpected data after JSON value")
	}
	if containsNUL(root) {
		return Tree{}, ErrNULCharacter
	}

	return Tree{root: root, raw: trimmed}, nil
}

func containsNUL(v any) bool {
	switch node := v.(type) {
	case string:
		return strings.IndexByte(node, 0) >= 0
	case map[string]any:
		for k, child := range node {
			if strings.IndexByte(k, 0) >= 0 || containsNUL(child) {
				return true
			}
		}
	case []any:
		for _, child := range node {
			if containsNUL(child) {
				return true
			}
		}
	}
	return false
}

// FromValue wraps an already decoded value. Raw returns its JSON encoding.
func FromValue(v any) (Tree, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Tree{}, fmt.Errorf("encode payload: %w", err)
	}
	return Parse(raw)
}

// Raw returns the original JSON bytes of the payload.
func (t Tree) Raw() json.RawMessage {
	return json.RawMessage(t.raw)
}

// Lookup walks path from the root. It returns false when any segment is
// missing or the value at that point cannot be descended into.
func (t Tree) Lookup(path Path) (any, bool) {
	cur := t.root
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Path is a sequence of object keys (or array indexes) into a Tree.
type Path []string

// ParsePath splits a dotted path such as "data.camera.id".
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "."))
}

// ParsePaths is ParsePath applied to each element of ss.
func ParsePaths(ss ...string) []Path {
	paths := make([]Path, 0, len(ss))
	for _, s := range ss {
		paths = append(paths, ParsePath(s))
	}
	return paths
}

// Scalar returns the string form of a leaf value. Numbers keep their
// literal text and booleans become "true" or "false". Null, objects and
// arrays have no scalar form.
func Scalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}
