package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// IncassationRepositoryFacade defines persistence operations for incassation
// requests.
type IncassationRepositoryFacade interface {
	// SaveRequest inserts a new pending request.
	SaveRequest(ctx context.Context, req domain.IncassationRequest) error

	// FindRequestByID retrieves a request by its ID.
	FindRequestByID(ctx context.Context, requestID string) (*domain.IncassationRequest, error)

	// ResolveRequest conditionally moves a PENDING request to the given
	// terminal status. A request that is already resolved surfaces as
	// apperrors.ErrConflict.
	ResolveRequest(ctx context.Context, requestID string, status domain.IncassationStatus, approverID string, now time.Time) error

	// ResolveAndPost conditionally resolves a PENDING request and posts the
	// given ledger entries with their balance deltas in one database
	// transaction. If any part fails the request stays PENDING.
	ResolveAndPost(ctx context.Context, requestID string, status domain.IncassationStatus, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, approverID string, now time.Time) error

	// ListRequests retrieves requests, newest first, optionally filtered by status.
	ListRequests(ctx context.Context, status *domain.IncassationStatus, limit, offset int) ([]domain.IncassationRequest, error)
}
