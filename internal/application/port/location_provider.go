// Package port defines interfaces for external dependencies.
package port

import (
	"context"
	"errors"

	"github.com/bnema/geobadge/internal/domain/entity"
)

var (
	// ErrProvider wraps network failures, non-2xx responses and malformed payloads.
	ErrProvider = errors.New("location provider failed")
	// ErrUnknownProvider is returned when no provider matches the selector.
	ErrUnknownProvider = errors.New("unknown location provider")
)

//go:generate mockgen -source=location_provider.go -destination=mocks/mock_location_provider.go -package=mocks

// LocationProvider resolves the current public IP location.
// Implementations must not touch persisted state and must not retry.
type LocationProvider interface {
	ID() entity.ProviderID
	// Fetch returns a record without FetchedAt set; the caller stamps it.
	Fetch(ctx context.Context) (*entity.LocationRecord, error)
}

// ProviderResolver maps a settings selector to its provider.
type ProviderResolver interface {
	Resolve(id entity.ProviderID) (LocationProvider, error)
}
