package cache_test

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/cache"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	getEntryQuery = `
		SELECT value
		FROM geo_cache
		WHERE cache_key = $1 AND expires_at > now();
	`
	setEntryQuery = `
		INSERT INTO geo_cache (cache_key, value, expires_at)
		VALUES ($1, $2, now() + make_interval(secs => $3))
		ON CONFLICT (cache_key) DO UPDATE
		SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at;
	`
	sweepQuery = `DELETE FROM geo_cache WHERE expires_at <= now();`
)

func TestPostgresStore_Get(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("hit", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getEntryQuery)).
			WithArgs("coordinates:main st").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"message":"ok"}`)))

		value, err := store.Get(ctx, "coordinates:main st")

		require.NoError(t, err)
		assert.JSONEq(t, `{"message":"ok"}`, string(value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row is a miss", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getEntryQuery)).
			WithArgs("k").
			WillReturnError(pgx.ErrNoRows)

		value, err := store.Get(ctx, "k")

		require.ErrorIs(t, err, cache.ErrMiss)
		assert.Nil(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(getEntryQuery)).
			WithArgs("k").
			WillReturnError(assert.AnError)

		_, err = store.Get(ctx, "k")

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to read cache entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Set(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("upsert", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(setEntryQuery)).
			WithArgs("k", []byte("v"), float64(3600)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Hour))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(setEntryQuery)).
			WithArgs("k", []byte("v"), float64(60)).
			WillReturnError(assert.AnError)

		err = store.Set(ctx, "k", []byte("v"), time.Minute)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to write cache entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive ttl is skipped", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		store := cache.NewPostgresStore(mock, logger)

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Sweep(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := cache.NewPostgresStore(mock, slog.Default())

	mock.ExpectExec(regexp.QuoteMeta(sweepQuery)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta(sweepQuery)).
		WillReturnError(assert.AnError)

	removed, err := store.Sweep(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	_, err = store.Sweep(t.Context())
	require.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := cache.NewPostgresStore(mock, slog.Default())

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS geo_cache").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS geo_cache").
		WillReturnError(assert.AnError)

	require.NoError(t, store.EnsureSchema(t.Context()))
	require.ErrorContains(t, store.EnsureSchema(t.Context()), "failed to create cache table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Ping(t *testing.T) {
	t.Parallel()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := cache.NewPostgresStore(mock, slog.Default())

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(assert.AnError)

	require.NoError(t, store.Ping(t.Context()))
	require.ErrorIs(t, store.Ping(t.Context()), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
