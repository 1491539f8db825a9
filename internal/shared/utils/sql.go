package utils

import (
	"strconv"
	"strings"
)

// Rebind rewrites `?` placeholders into PostgreSQL's positional `$n` form,
// starting at start. Clause contributors write `?` so their fragments can be
// appended to a query whose placeholder count they don't know.
func Rebind(fragment string, start int) (string, int) {
	var b strings.Builder
	n := start
	for _, r := range fragment {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), n
}

// JoinWithAnd joins clause fragments with the AND operator.
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
