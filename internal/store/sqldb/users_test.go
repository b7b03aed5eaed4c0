package sqldb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{Email: "neo@example.com", Hash: "$2a$10$hash"}))

	got, err := s.GetUserByEmail(ctx, "neo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "neo@example.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.Hash)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCreateUser_DuplicateIsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &domain.User{Email: "neo@example.com", Hash: "a"}))

	err := s.CreateUser(ctx, &domain.User{Email: "neo@example.com", Hash: "b"})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, store.MsgDuplicate, domainErr.Message)
}

func TestCreateUser_ConcurrentSameEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.CreateUser(ctx, &domain.User{Email: "race@example.com", Hash: "h"})
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		// Lock contention may surface as a generic storage error, never as a second row.
		assert.True(t, errors.Is(err, domainerrors.ErrConflict) || errors.Is(err, domainerrors.ErrStorage), err)
	}
	assert.Equal(t, 1, created)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", "race@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestQueriesAfterCloseAreUnavailable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.GetUserByEmail(context.Background(), "neo@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
}
