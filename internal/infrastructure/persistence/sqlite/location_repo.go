package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
	"github.com/bnema/geobadge/internal/logging"
)

const locationKey = "data"

const (
	selectLocationSQL = `
SELECT ip_address, country, region, country_code, isp, fetched_at
FROM session_location
WHERE key = ?`

	// The WHERE clause on the update keeps fetched_at non-decreasing.
	upsertLocationSQL = `
INSERT INTO session_location (key, ip_address, country, region, country_code, isp, fetched_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
    ip_address   = excluded.ip_address,
    country      = excluded.country,
    region       = excluded.region,
    country_code = excluded.country_code,
    isp          = excluded.isp,
    fetched_at   = excluded.fetched_at,
    updated_at   = excluded.updated_at
WHERE excluded.fetched_at >= session_location.fetched_at`

	deleteLocationSQL = `DELETE FROM session_location`
)

type locationRepo struct {
	db *sql.DB
}

// NewLocationRepository returns the session scoped location store.
func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Get(ctx context.Context) (*entity.LocationRecord, error) {
	var (
		record    entity.LocationRecord
		fetchedAt int64
	)
	err := r.db.QueryRowContext(ctx, selectLocationSQL, locationKey).Scan(
		&record.IPAddress,
		&record.Country,
		&record.Region,
		&record.CountryCode,
		&record.ISP,
		&fetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logging.FromContext(ctx).Error().Err(err).Msg("failed to read session location")
		return nil, fmt.Errorf("read session location: %w", err)
	}
	record.FetchedAt = time.UnixMilli(fetchedAt)
	return &record, nil
}

func (r *locationRepo) Save(ctx context.Context, record *entity.LocationRecord) error {
	log := logging.FromContext(ctx)
	if record == nil {
		return fmt.Errorf("location record is nil")
	}

	res, err := r.db.ExecContext(ctx, upsertLocationSQL,
		locationKey,
		record.IPAddress,
		record.Country,
		record.Region,
		record.CountryCode,
		record.ISP,
		record.FetchedAtMillis(),
		time.Now().UnixMilli(),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to save session location")
		return fmt.Errorf("save session location: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save session location: %w", err)
	}
	if affected == 0 {
		return repository.ErrStaleWrite
	}

	log.Debug().
		Str("country_code", record.CountryCode).
		Int64("fetched_at", record.FetchedAtMillis()).
		Msg("session location saved")
	return nil
}

// ResetSession clears the stored location. The daemon calls it once per start
// so every session begins without a known location.
func ResetSession(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, deleteLocationSQL); err != nil {
		return fmt.Errorf("reset session location: %w", err)
	}
	logging.FromContext(ctx).Debug().Msg("session location cleared")
	return nil
}
