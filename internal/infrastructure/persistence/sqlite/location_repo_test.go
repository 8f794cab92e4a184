package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestLocationRepository_GetEmpty(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "session.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	got, err := sqlite.NewLocationRepository(db).Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLocationRepository_SaveOverwrites(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "session.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLocationRepository(db)
	first := &entity.LocationRecord{
		IPAddress:   "203.0.113.7",
		Country:     "Germany",
		Region:      "Berlin",
		CountryCode: "DE",
		ISP:         "Deutsche Telekom AG",
		FetchedAt:   time.UnixMilli(1_717_243_200_000),
	}
	require.NoError(t, repo.Save(ctx, first))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.IPAddress, got.IPAddress)
	assert.Equal(t, first.ISP, got.ISP)
	assert.True(t, got.FetchedAt.Equal(first.FetchedAt))

	second := *first
	second.CountryCode = "FR"
	second.FetchedAt = first.FetchedAt.Add(time.Minute)
	require.NoError(t, repo.Save(ctx, &second))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FR", got.CountryCode)
}

func TestLocationRepository_RejectsOlderRecord(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "session.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewLocationRepository(db)
	now := time.UnixMilli(1_717_243_200_000)
	require.NoError(t, repo.Save(ctx, &entity.LocationRecord{IPAddress: "1.1.1.1", CountryCode: "US", FetchedAt: now}))

	err = repo.Save(ctx, &entity.LocationRecord{IPAddress: "2.2.2.2", CountryCode: "CA", FetchedAt: now.Add(-time.Second)})
	require.ErrorIs(t, err, repository.ErrStaleWrite)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "US", got.CountryCode)

	// Equal timestamps are allowed: the stored value is non-decreasing.
	require.NoError(t, repo.Save(ctx, &entity.LocationRecord{IPAddress: "3.3.3.3", CountryCode: "IT", FetchedAt: now}))
}

func TestResetSession(t *testing.T) {
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "session.sqlite")
	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)

	repo := sqlite.NewLocationRepository(db)
	require.NoError(t, repo.Save(ctx, &entity.LocationRecord{IPAddress: "1.1.1.1", FetchedAt: time.Now()}))
	require.NoError(t, db.Close())

	// Reopening runs migrations again without touching data.
	db, err = sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo = sqlite.NewLocationRepository(db)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, sqlite.ResetSession(ctx, db))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	version, err := sqlite.SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestNewConnection_EmptyPath(t *testing.T) {
	_, err := sqlite.NewConnection(testCtx(), "")
	require.Error(t, err)
}
