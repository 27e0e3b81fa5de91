package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	"github.com/fieldworks/crew_settlement_app/internal/models"
	"github.com/fieldworks/crew_settlement_app/internal/utils/mapping"
)

const incassationColumns = `request_id, crew_id, amount, status, debt_snapshot,
	       requested_at, requested_by, resolved_at, resolved_by`

type PgxIncassationRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTxRepository
}

func newPgxIncassationRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTxRepository) portsrepo.IncassationRepositoryFacade {
	return &PgxIncassationRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.IncassationRepositoryFacade = (*PgxIncassationRepository)(nil)

// SaveRequest inserts a new pending request.
func (r *PgxIncassationRepository) SaveRequest(ctx context.Context, req domain.IncassationRequest) error {
	m := mapping.ToModelIncassationRequest(req)

	query := `
		INSERT INTO incassation_requests (` + incassationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RequestID,
		m.CrewID,
		m.Amount,
		m.Status,
		m.DebtSnapshot,
		m.RequestedAt,
		m.RequestedBy,
		m.ResolvedAt,
		m.ResolvedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: incassation request %s", apperrors.ErrDuplicate, m.RequestID)
		}
		return apperrors.NewAppError(500, "failed to insert incassation request "+m.RequestID, err)
	}
	return nil
}

func scanIncassationRequest(row pgx.Row) (*domain.IncassationRequest, error) {
	var m models.IncassationRequest
	err := row.Scan(
		&m.RequestID,
		&m.CrewID,
		&m.Amount,
		&m.Status,
		&m.DebtSnapshot,
		&m.RequestedAt,
		&m.RequestedBy,
		&m.ResolvedAt,
		&m.ResolvedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan incassation request row", err)
	}
	req := mapping.ToDomainIncassationRequest(m)
	return &req, nil
}

// FindRequestByID retrieves a request by its ID.
func (r *PgxIncassationRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.IncassationRequest, error) {
	query := `SELECT ` + incassationColumns + ` FROM incassation_requests WHERE request_id = $1;`
	return scanIncassationRequest(r.Pool.QueryRow(ctx, query, requestID))
}

// ResolveRequest conditionally moves a pending request to the given terminal
// status. The status guard makes resolution idempotent-safe: a second resolver
// loses the race and gets a conflict instead of flipping the outcome.
func (r *PgxIncassationRepository) ResolveRequest(ctx context.Context, requestID string, status domain.IncassationStatus, approverID string, now time.Time) error {
	query := `
		UPDATE incassation_requests
		SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE request_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, requestID, string(status), now, approverID, string(domain.IncassationPending))
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve incassation request "+requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		req, findErr := r.FindRequestByID(ctx, requestID)
		if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: incassation request %s already resolved as %s", apperrors.ErrConflict, requestID, req.Status)
	}
	return nil
}

// ResolveAndPost resolves a pending request and posts the cash-handover
// ledger entries in one database transaction. The conditional status update
// doubles as the one-shot guard: of two concurrent approvers, the loser's
// update matches zero rows and nothing it did is committed. A posting failure
// rolls the resolution back too, so the request stays PENDING and retryable.
func (r *PgxIncassationRepository) ResolveAndPost(ctx context.Context, requestID string, status domain.IncassationStatus, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, approverID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE incassation_requests
		SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE request_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, requestID, string(status), now, approverID, string(domain.IncassationPending))
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve incassation request "+requestID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		req, findErr := r.FindRequestByID(ctx, requestID)
		if findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: incassation request %s already resolved as %s", apperrors.ErrConflict, requestID, req.Status)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for incassation request "+requestID, err)
	}
	if err := r.accountRepo.InsertTransactionsInTx(ctx, tx, entries); err != nil {
		return apperrors.NewAppError(500, "failed to insert entries for incassation request "+requestID, err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, approverID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update balances for incassation request "+requestID, err)
	}

	return r.Commit(ctx, tx)
}

// ListRequests retrieves requests, newest first, optionally filtered by status.
func (r *PgxIncassationRepository) ListRequests(ctx context.Context, status *domain.IncassationStatus, limit, offset int) ([]domain.IncassationRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + incassationColumns + ` FROM incassation_requests`
	args := []any{limit, offset}
	if status != nil {
		query += ` WHERE status = $3`
		args = append(args, string(*status))
	}
	query += ` ORDER BY requested_at DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query incassation requests", err)
	}
	defer rows.Close()

	reqs := []domain.IncassationRequest{}
	for rows.Next() {
		var m models.IncassationRequest
		err := rows.Scan(
			&m.RequestID,
			&m.CrewID,
			&m.Amount,
			&m.Status,
			&m.DebtSnapshot,
			&m.RequestedAt,
			&m.RequestedBy,
			&m.ResolvedAt,
			&m.ResolvedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan incassation request row", err)
		}
		reqs = append(reqs, mapping.ToDomainIncassationRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating incassation request rows", err)
	}
	return reqs, nil
}
