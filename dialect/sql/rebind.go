package sql

import (
	"fmt"
	"strings"

	"github.com/mitranim/sqlp"
)

// rebind replaces the ? placeholders of query with bind(1), bind(2), ...
// Placeholders inside quoted strings, quoted identifiers and comments are
// left alone. Malformed queries (an unterminated quote or comment) are
// reported as errors.
func rebind(query string, bind func(int) string) (_ string, err error) {
	if !strings.Contains(query, "?") {
		return query, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialect/sql: rebind: %v", r)
		}
	}()
	var (
		n, pos int
		buf    = make([]byte, 0, len(query)+8)
		tok    = sqlp.Tokenizer{Source: query}
	)
	for node := tok.Next(); node != nil; node = tok.Next() {
		text, ok := node.(sqlp.NodeText)
		if !ok {
			// The tokenizer closes unterminated quotes and comments when
			// appending; the source must come back unchanged.
			start := len(buf)
			node.Append(&buf)
			if !strings.HasPrefix(query[pos:], string(buf[start:])) {
				return "", malformed(query, pos)
			}
			pos += len(buf) - start
			continue
		}
		s := string(text)
		if !strings.HasPrefix(query[pos:], s) {
			return "", malformed(query, pos)
		}
		pos += len(s)
		for {
			i := strings.IndexByte(s, '?')
			if i < 0 {
				buf = append(buf, s...)
				break
			}
			n++
			buf = append(buf, s[:i]...)
			buf = append(buf, bind(n)...)
			s = s[i+1:]
		}
	}
	if pos != len(query) {
		return "", malformed(query, pos)
	}
	return string(buf), nil
}

func malformed(query string, pos int) error {
	return fmt.Errorf("dialect/sql: rebind: malformed statement at offset %d: %q", pos, query[pos:])
}
