package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
)

// Messages of classified storage faults.
const (
	MsgDuplicate   = "Duplicate entry found"
	MsgNoTable     = "Database table not found"
	MsgUnavailable = "Database connection failed"
	MsgGeneric     = "Database operation failed"
)

// Kind is the category of a storage fault.
type Kind int

// Fault kinds.
const (
	KindGeneric Kind = iota
	KindDuplicate
	KindSchema
	KindUnavailable
)

// MySQL server error numbers.
const (
	mysqlDupEntry         = 1062
	mysqlNoSuchTable      = 1146
	mysqlBadField         = 1054
	mysqlTooManyConns     = 1040
	mysqlAccessDenied     = 1045
	mysqlConnError        = 2002
	mysqlConnHostError    = 2003
	mysqlServerGone       = 2006
	mysqlServerLost       = 2013
	pgUniqueViolation     = "23505"
	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
	pgTooManyConnections  = "53300"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
	pgConnectionException = "08"
)

// Classify maps a driver error to a domain error. Errors that are already
// domain errors, and nil, are returned unchanged. The original error stays
// reachable through errors.Unwrap.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	switch KindOf(err) {
	case KindDuplicate:
		return domainerrors.Conflict(MsgDuplicate).WithCause(err)
	case KindSchema:
		return domainerrors.Schema(MsgNoTable).WithCause(err)
	case KindUnavailable:
		return domainerrors.Unavailable(MsgUnavailable).WithCause(err)
	default:
		return domainerrors.Storage(MsgGeneric).WithCause(err)
	}
}

// KindOf reports the fault category of a driver error.
func KindOf(err error) Kind {
	var (
		myErr   *mysql.MySQLError
		pgErr   *pgconn.PgError
		pgConn  *pgconn.ConnectError
		liteErr *sqlite.Error
		opErr   *net.OpError
	)

	switch {
	case errors.As(err, &myErr):
		return mysqlKind(myErr.Number)
	case errors.As(err, &pgErr):
		return postgresKind(pgErr.Code)
	case errors.As(err, &pgConn):
		return KindUnavailable
	case errors.As(err, &liteErr):
		return sqliteKind(liteErr)
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn):
		return KindUnavailable
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return KindUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindGeneric
	}
	return messageKind(err.Error())
}

func mysqlKind(number uint16) Kind {
	switch number {
	case mysqlDupEntry:
		return KindDuplicate
	case mysqlNoSuchTable, mysqlBadField:
		return KindSchema
	case mysqlTooManyConns, mysqlAccessDenied, mysqlConnError, mysqlConnHostError, mysqlServerGone, mysqlServerLost:
		return KindUnavailable
	default:
		return KindGeneric
	}
}

func postgresKind(code string) Kind {
	switch {
	case code == pgUniqueViolation:
		return KindDuplicate
	case code == pgUndefinedTable, code == pgUndefinedColumn:
		return KindSchema
	case strings.HasPrefix(code, pgConnectionException),
		code == pgTooManyConnections, code == pgAdminShutdown, code == pgCannotConnectNow:
		return KindUnavailable
	default:
		return KindGeneric
	}
}

func sqliteKind(err *sqlite.Error) Kind {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return KindDuplicate
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		return KindUnavailable
	}
	return messageKind(err.Error())
}

// messageKind is the fallback for drivers whose errors carry no usable code.
func messageKind(msg string) Kind {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return KindDuplicate
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return KindSchema
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "database is closed"):
		return KindUnavailable
	default:
		return KindGeneric
	}
}
