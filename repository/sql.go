package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

type dialect int

const (
	dialectMySQL dialect = iota
	dialectPostgres
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "mysql":
		return dialectMySQL, nil
	case "postgres", "pgx":
		return dialectPostgres, nil
	}
	return 0, fmt.Errorf("unsupported sql driver %q", driver)
}

// rebind rewrites ? placeholders into $n for postgres.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

type sqlStore struct {
	db *sql.DB
	d  dialect
}

// NewSQL builds repositories over an open database handle. driver is the
// name the handle was opened with.
func NewSQL(db *sql.DB, driver string) (*Repositories, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	s := &sqlStore{db: db, d: d}
	return &Repositories{
		Users:       &sqlUsers{s},
		Profiles:    &sqlProfiles{s},
		Friendships: &sqlFriendships{s},
		Todos:       &sqlTodos{s},
	}, nil
}

// isUniqueViolation recognizes duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// escapeLikePattern escapes LIKE wildcards in user input.
func escapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "\\\\")
	pattern = strings.ReplaceAll(pattern, "%", "\\%")
	pattern = strings.ReplaceAll(pattern, "_", "\\_")
	return pattern
}
