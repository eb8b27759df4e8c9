package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vihar/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewWithDB(context.Background(), db)
	require.NoError(t, err)
	return s, mock
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).WithArgs(store.KeyPolls).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).WithArgs(store.KeyVihars).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).WithArgs(store.KeyUserVotes).
		WillReturnError(errors.New("connection reset"))

	v, ok, err := s.Get(ctx, store.KeyPolls)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)

	_, ok, err = s.Get(ctx, store.KeyVihars)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = s.Get(ctx, store.KeyUserVotes)
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAndRemove(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).WithArgs(store.KeyInitialized, "true").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).WithArgs(store.KeySession).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Set(ctx, store.KeyInitialized, "true"))
	require.NoError(t, s.Remove(ctx, store.KeySession))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMany_Commits(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).WithArgs(store.KeyPolls, `[]`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).WithArgs(store.KeyUserVotes, `{"p":"o"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.SetMany(ctx, []store.Write{
		{Key: store.KeyPolls, Value: `[]`},
		{Key: store.KeyUserVotes, Value: `{"p":"o"}`},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMany_RollsBack(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).WithArgs(store.KeyPolls, `[]`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).WithArgs(store.KeyDeletedIDs).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.SetMany(ctx, []store.Write{
		{Key: store.KeyPolls, Value: `[]`},
		{Key: store.KeyDeletedIDs, Delete: true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), store.KeyDeletedIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithDB_TableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	_, err = NewWithDB(context.Background(), db)
	require.Error(t, err)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}
