package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/domain/repository"
)

// LazyLocationRepository defers opening the database until the first call.
type LazyLocationRepository struct {
	provider *LazyDB
	repo     repository.LocationRepository
	once     sync.Once
	initErr  error
}

// NewLazyLocationRepository creates a lazy-loading location repository.
func NewLazyLocationRepository(provider *LazyDB) repository.LocationRepository {
	return &LazyLocationRepository{provider: provider}
}

func (r *LazyLocationRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewLocationRepository(db)
	})
	return r.initErr
}

func (r *LazyLocationRepository) Get(ctx context.Context) (*entity.LocationRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx)
}

func (r *LazyLocationRepository) Save(ctx context.Context, record *entity.LocationRecord) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Save(ctx, record)
}
