package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlweave/convert"
	"github.com/syssam/sqlweave/dialect"
)

// Standard returns the ANSI SQL renderer. It is the spelling of the base
// registry: TRUE/FALSE, X'..' binaries, TIMESTAMP '..' and LIMIT/OFFSET.
// Only FOR UPDATE is rendered, and UPDATE and DELETE take no joins.
func Standard(opts ...Option) Database {
	return newBase(dialect.Standard, convert.DefaultStyle, rules{
		offsetLimit: true,
		fullJoin:    true,
		paginate:    limitOffset(""),
		lock:        updateLockOnly,
	}, opts)
}

// Postgres returns the PostgreSQL renderer.
func Postgres(opts ...Option) Database {
	style := convert.DefaultStyle
	style.Escape = convert.EscapeExtended
	style.Bytes = convert.BytesBytea
	style.TimePrefix = "TIMESTAMPTZ "
	style.TimeLayout = "2006-01-02 15:04:05.999999-07:00"
	return newBase(dialect.Postgres, style, rules{
		offsetLimit: true,
		fullJoin:    true,
		updateJoin:  joinFrom,
		deleteJoin:  joinFrom,
		paginate:    limitOffset(""),
		lock:        rowLock,
		bind:        func(n int) string { return "$" + strconv.Itoa(n) },
	}, opts)
}

// MySQL returns the MySQL renderer.
func MySQL(opts ...Option) Database {
	style := convert.DefaultStyle
	style.True, style.False = "1", "0"
	style.Escape = convert.EscapeBackslash
	style.TimePrefix = ""
	style.TimeLayout = "2006-01-02 15:04:05.999999"
	style.DatePrefix = ""
	return newBase(dialect.MySQL, style, rules{
		offsetLimit:  true,
		updateJoin:   joinInline,
		deleteJoin:   joinInline,
		deleteTarget: true,
		writeLimit:   true,
		paginate:     limitOffset("18446744073709551615"),
		lock:         rowLock,
	}, opts)
}

// SQLite returns the SQLite renderer.
func SQLite(opts ...Option) Database {
	style := convert.DefaultStyle
	style.True, style.False = "1", "0"
	style.TimePrefix = ""
	style.TimeLayout = "2006-01-02 15:04:05.999999999-07:00"
	style.DatePrefix = ""
	return newBase(dialect.SQLite, style, rules{
		offsetLimit: true,
		fullJoin:    true,
		updateJoin:  joinFrom,
		paginate:    limitOffset("-1"),
		lock:        noLock,
	}, opts)
}

// SQLServer returns the SQL Server renderer. It paginates with OFFSET and
// FETCH and expresses row locks as table hints.
func SQLServer(opts ...Option) Database {
	style := convert.DefaultStyle
	style.True, style.False = "1", "0"
	style.National = true
	style.Bytes = convert.BytesHex0x
	style.TimePrefix = ""
	style.TimeLayout = "2006-01-02T15:04:05.9999999"
	style.DatePrefix = ""
	return newBase(dialect.SQLServer, style, rules{
		fullJoin:     true,
		updateJoin:   joinTarget,
		deleteJoin:   joinInline,
		deleteTarget: true,
		paginate:     offsetFetch,
		lock:         func(string, *Query) (string, error) { return "", nil },
		hint:         tableHint,
		bind:         func(n int) string { return "@p" + strconv.Itoa(n) },
	}, opts)
}

func offsetFetch(q *Query) string {
	offset := 0
	if q.offset != nil {
		offset = *q.offset
	}
	clause := " OFFSET " + strconv.Itoa(offset) + " ROWS"
	if q.limit != nil {
		clause += " FETCH NEXT " + strconv.Itoa(*q.limit) + " ROWS ONLY"
	}
	return clause
}

// tableHint renders the row lock of q as a table hint.
func tableHint(q *Query) (string, error) {
	if err := checkLock(q); err != nil || q.lock == LockNone {
		return "", err
	}
	hints := []string{"UPDLOCK", "ROWLOCK"}
	if q.lock == LockShare {
		hints[0] = "HOLDLOCK"
	}
	switch q.wait {
	case WaitNoWait:
		hints = append(hints, "NOWAIT")
	case WaitSkipLocked:
		hints = append(hints, "READPAST")
	}
	return " WITH (" + strings.Join(hints, ", ") + ")", nil
}
