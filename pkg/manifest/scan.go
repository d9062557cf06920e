package manifest

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

type stmtKind int

const (
	stmtHeader stmtKind = iota
	stmtArrayHeader
	stmtKeyValue
)

// statement is one header or key/value expression of a TOML document,
// located by byte offsets into the source.
type statement struct {
	kind stmtKind
	// path is the table path of a header or the dotted key of a key/value.
	path []string
	// raws holds the source text of each key segment.
	raws []string

	lineStart, lineEnd   int
	valueStart, valueEnd int
	indent               string

	// inline is set when the value is an inline table.
	inline     bool
	inlineKeys []inlineField
}

// inlineField is one key/value pair of an inline table.
type inlineField struct {
	key string
	// raw is the source text from the key to the end of the value.
	raw string
}

// scanner turns go-toml's expression stream into statements. The parser
// reports key and string ranges; value ends of other kinds are found by
// walking from the value start.
type scanner struct {
	src string
	p   unstable.Parser
}

// scan splits a document that already decoded successfully into statements.
func scan(src string) ([]statement, error) {
	s := &scanner{src: src}
	s.p.Reset([]byte(src))

	var stmts []statement
	for s.p.NextExpression() {
		e := s.p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			stmts = append(stmts, s.header(e))
		case unstable.KeyValue:
			st, err := s.keyValue(e)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, st)
		}
	}
	if err := s.p.Error(); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (s *scanner) keys(n *unstable.Node) (parts, raws []string, start, end int) {
	start = -1
	it := n.Key()
	for it.Next() {
		k := it.Node()
		off, size := int(k.Raw.Offset), int(k.Raw.Length)
		if start < 0 {
			start = off
		}
		end = off + size
		parts = append(parts, string(k.Data))
		raws = append(raws, s.src[off:end])
	}
	return parts, raws, start, end
}

func (s *scanner) header(n *unstable.Node) statement {
	parts, raws, keyStart, keyEnd := s.keys(n)

	open := keyStart
	for open > 0 && (s.src[open-1] == ' ' || s.src[open-1] == '\t') {
		open--
	}
	for open > 0 && s.src[open-1] == '[' {
		open--
	}
	lineStart := strings.LastIndexByte(s.src[:open], '\n') + 1

	kind := stmtHeader
	if n.Kind == unstable.ArrayTable {
		kind = stmtArrayHeader
	}
	return statement{
		kind: kind, path: parts, raws: raws,
		lineStart: lineStart, lineEnd: lineEnd(s.src, keyEnd),
		indent: s.src[lineStart:open],
	}
}

func (s *scanner) keyValue(n *unstable.Node) (statement, error) {
	parts, raws, keyStart, _ := s.keys(n)
	vs, ve, err := s.valueSpan(n)
	if err != nil {
		return statement{}, err
	}
	lineStart := strings.LastIndexByte(s.src[:keyStart], '\n') + 1

	st := statement{
		kind: stmtKeyValue, path: parts, raws: raws,
		lineStart: lineStart, lineEnd: lineEnd(s.src, ve),
		valueStart: vs, valueEnd: ve,
		indent: s.src[lineStart:keyStart],
	}
	if v := n.Value(); v.Kind == unstable.InlineTable {
		st.inline = true
		st.inlineKeys, err = s.inlineFields(v, vs)
	}
	return st, err
}

// valueSpan locates the value of a key/value node.
func (s *scanner) valueSpan(n *unstable.Node) (start, end int, err error) {
	_, _, _, keyEnd := s.keys(n)
	eq := skipSpace(s.src, keyEnd)
	if eq >= len(s.src) || s.src[eq] != '=' {
		return 0, 0, fmt.Errorf("offset %d: expected '=' after key", eq)
	}
	start = skipSpace(s.src, eq+1)
	end, err = s.valueEnd(n.Value(), start)
	return start, end, err
}

func (s *scanner) inlineFields(n *unstable.Node, start int) ([]inlineField, error) {
	var fields []inlineField
	it := n.Children()
	for it.Next() {
		kv := it.Node()
		parts, _, keyStart, _ := s.keys(kv)
		_, end, err := s.valueSpan(kv)
		if err != nil {
			return nil, err
		}
		fields = append(fields, inlineField{key: parts[0], raw: s.src[keyStart:end]})
	}
	return fields, nil
}

// valueEnd returns the offset just past the value n starting at start.
func (s *scanner) valueEnd(n *unstable.Node, start int) (int, error) {
	switch n.Kind {
	case unstable.String:
		return int(n.Raw.Offset + n.Raw.Length), nil

	case unstable.Array, unstable.InlineTable:
		closer := byte(']')
		if n.Kind == unstable.InlineTable {
			closer = '}'
		}
		pos := start + 1
		it := n.Children()
		for it.Next() {
			c := it.Node()
			var err error
			if c.Kind == unstable.KeyValue {
				_, pos, err = s.valueSpan(c)
			} else {
				pos, err = s.valueEnd(c, skipSeparators(s.src, pos))
			}
			if err != nil {
				return 0, err
			}
		}
		pos = skipSeparators(s.src, pos)
		if pos >= len(s.src) || s.src[pos] != closer {
			return 0, fmt.Errorf("offset %d: expected %q", pos, closer)
		}
		return pos + 1, nil
	}

	// Numbers, booleans and datetimes never contain separators.
	k := start
	for k < len(s.src) && !strings.ContainsRune(",]}#\r\n", rune(s.src[k])) {
		k++
	}
	return start + len(strings.TrimRight(s.src[start:k], " \t")), nil
}

// skipSpace skips spaces, tabs and carriage returns.
func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
		i++
	}
	return i
}

// skipSeparators skips whitespace, newlines, commas and comments between
// array elements.
func skipSeparators(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\r', '\n', ',':
			i++
		case '#':
			i = lineEnd(s, i)
		default:
			return i
		}
	}
	return i
}

// lineEnd returns the offset just past the newline ending the line at i.
func lineEnd(s string, i int) int {
	if k := strings.IndexByte(s[i:], '\n'); k >= 0 {
		return i + k + 1
	}
	return len(s)
}
