package repository

import (
	"context"
	"errors"

	"github.com/bnema/geobadge/internal/domain/entity"
)

// ErrStaleWrite is returned when a record older than the stored one is saved.
var ErrStaleWrite = errors.New("location record is older than the stored one")

// LocationRepository persists the last known location of the current session.
type LocationRepository interface {
	// Get returns nil, nil when no location has been fetched this session.
	Get(ctx context.Context) (*entity.LocationRecord, error)
	Save(ctx context.Context, record *entity.LocationRecord) error
}
