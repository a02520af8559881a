package ports

import (
	"context"
	"errors"
	"time"

	"dispatch-tour-service/internal/domain"
)

// ErrNotFound is returned by stores when no entity exists for the given
// identifier.
var ErrNotFound = errors.New("not found")

// TourFilter narrows a tour listing. Zero value matches everything.
type TourFilter struct {
	// Date matches tours planned for this calendar day.
	Date *time.Time
	// TourIDs, when non-empty, restricts the result to these identifiers.
	TourIDs []string
}

// Port: a boundary for reading and replacing Tour documents. Writes are
// whole-document replacements; the store guarantees atomicity per document
// and nothing across documents.
type TourStore interface {
	GetTour(ctx context.Context, tourID string) (*domain.Tour, error)
	ListTours(ctx context.Context, filter TourFilter) ([]*domain.Tour, error)
	// ListToursWithOrder returns every tour holding a stop for the given
	// order. The status synchronizer's cross-tour scan depends on it.
	ListToursWithOrder(ctx context.Context, orderID string) ([]*domain.Tour, error)
	CreateTour(ctx context.Context, tour *domain.Tour) error
	ReplaceTour(ctx context.Context, tour *domain.Tour) error
	DeleteTour(ctx context.Context, tourID string) error
}
