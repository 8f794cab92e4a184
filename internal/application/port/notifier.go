package port

import "context"

//go:generate mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks

// LocationNotifier delivers a human readable message about a location change.
type LocationNotifier interface {
	Notify(ctx context.Context, title, message string) error
}
