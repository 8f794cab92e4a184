package background

import (
	"context"

	"github.com/bnema/geobadge/internal/app/events"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
)

// publishingLocationRepository announces every successful Save as a storage change.
type publishingLocationRepository struct {
	repository.LocationRepository
	bus *events.Bus
}

func (r *publishingLocationRepository) Save(ctx context.Context, record *entity.LocationRecord) error {
	if err := r.LocationRepository.Save(ctx, record); err != nil {
		return err
	}
	r.bus.Publish(ctx, events.StorageEvent(entity.StorageAreaSession, entity.StorageKeyData))
	return nil
}
