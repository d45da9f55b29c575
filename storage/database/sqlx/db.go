// Package sqlxrepos implements the core repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
)

// New wraps an open connection for use by the repositories in this package.
// Struct fields map to snake_case columns unless a db tag says otherwise.
func New(db *sql.DB) *sqlx.DB {
	sdb := sqlx.NewDb(db, "postgres")
	sdb.MapperFunc(toSnake)
	return sdb
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func itoa(n int) string { return strconv.Itoa(n) }
