package store_test

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    domainerrors.Code
		message string
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a' for key 'email'"}, domainerrors.CodeConflict, store.MsgDuplicate},
		{"mysql missing table", &mysql.MySQLError{Number: 1146, Message: "Table 'movies.basics' doesn't exist"}, domainerrors.CodeSchema, store.MsgNoTable},
		{"mysql missing column", &mysql.MySQLError{Number: 1054}, domainerrors.CodeSchema, store.MsgNoTable},
		{"mysql server gone", &mysql.MySQLError{Number: 2006}, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"mysql other", &mysql.MySQLError{Number: 1064}, domainerrors.CodeStorage, store.MsgGeneric},
		{"mysql invalid conn", mysql.ErrInvalidConn, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, domainerrors.CodeConflict, store.MsgDuplicate},
		{"postgres undefined table", &pgconn.PgError{Code: "42P01"}, domainerrors.CodeSchema, store.MsgNoTable},
		{"postgres connection class", &pgconn.PgError{Code: "08006"}, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"postgres syntax", &pgconn.PgError{Code: "42601"}, domainerrors.CodeStorage, store.MsgGeneric},
		{"sqlite unique message", errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"), domainerrors.CodeConflict, store.MsgDuplicate},
		{"sqlite missing table message", errors.New("SQL logic error: no such table: basics (1)"), domainerrors.CodeSchema, store.MsgNoTable},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"dial op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")}, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"bad conn", driver.ErrBadConn, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"conn done", sql.ErrConnDone, domainerrors.CodeUnavailable, store.MsgUnavailable},
		{"anything else", errors.New("disk I/O error"), domainerrors.CodeStorage, store.MsgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Classify(tt.err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, got, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
			assert.Equal(t, tt.message, domainErr.Message)
			assert.ErrorIs(t, got, tt.err, "original fault must stay reachable")
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, store.Classify(nil))

	notFound := domainerrors.NotFound("Movie not found")
	assert.Same(t, notFound, store.Classify(notFound))

	wrapped := fmt.Errorf("get title: %w", notFound)
	assert.Equal(t, wrapped, store.Classify(wrapped))
}

func TestClassify_StorageKindsAreStorage(t *testing.T) {
	for _, err := range []error{
		&mysql.MySQLError{Number: 1146},
		&pgconn.PgError{Code: "08001"},
		errors.New("boom"),
	} {
		var domainErr *domainerrors.Error
		require.ErrorAs(t, store.Classify(err), &domainErr)
		assert.True(t, domainErr.IsStorage())
	}

	var conflict *domainerrors.Error
	require.ErrorAs(t, store.Classify(&mysql.MySQLError{Number: 1062}), &conflict)
	assert.False(t, conflict.IsStorage())
}
