package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	"github.com/fieldworks/crew_settlement_app/internal/models"
	"github.com/fieldworks/crew_settlement_app/internal/utils/mapping"
)

const orderColumns = `order_id, status, crew_id, description, final_price, total_expenses, net_profit,
	       crew_share, owner_share, settled_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxOrderRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountTxRepository
}

// newPgxOrderRepository creates a new repository for order data. The account
// repository is needed so settlement can post ledger entries inside the
// order's own database transaction.
func newPgxOrderRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountTxRepository) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

// SaveOrder inserts a new order.
func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	m := mapping.ToModelOrder(order)

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrderID,
		m.Status,
		m.CrewID,
		m.Description,
		m.FinalPrice,
		m.TotalExpenses,
		m.NetProfit,
		m.CrewShare,
		m.OwnerShare,
		m.SettledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert order "+m.OrderID, err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID,
		&m.Status,
		&m.CrewID,
		&m.Description,
		&m.FinalPrice,
		&m.TotalExpenses,
		&m.NetProfit,
		&m.CrewShare,
		&m.OwnerShare,
		&m.SettledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan order row", err)
	}
	order := mapping.ToDomainOrder(m)
	return &order, nil
}

// FindOrderByID retrieves an order by its ID, without expense lines.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1;`
	return scanOrder(r.Pool.QueryRow(ctx, query, orderID))
}

// FindExpensesByOrderID retrieves all expense lines of an order, oldest first.
func (r *PgxOrderRepository) FindExpensesByOrderID(ctx context.Context, orderID string) ([]domain.Expense, error) {
	query := `
		SELECT expense_id, order_id, amount, category, comment, created_at, created_by
		FROM expenses
		WHERE order_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses for order "+orderID, err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ExpenseID, &e.OrderID, &e.Amount, &e.Category, &e.Comment, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row for order "+orderID, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows for order "+orderID, err)
	}

	return mapping.ToDomainExpenseSlice(expenses), nil
}

func (r *PgxOrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query orders", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var m models.Order
		err := rows.Scan(
			&m.OrderID,
			&m.Status,
			&m.CrewID,
			&m.Description,
			&m.FinalPrice,
			&m.TotalExpenses,
			&m.NetProfit,
			&m.CrewShare,
			&m.OwnerShare,
			&m.SettledAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan order row", err)
		}
		orders = append(orders, mapping.ToDomainOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating order rows", err)
	}
	return orders, nil
}

// ListOrdersByStatus retrieves orders in the given status, newest first.
func (r *PgxOrderRepository) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	return r.listOrders(ctx, query, string(status), limit, offset)
}

// ListOrdersByCrew retrieves a crew's non-terminal orders, newest first.
func (r *PgxOrderRepository) ListOrdersByCrew(ctx context.Context, crewID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE crew_id = $1 AND status NOT IN ('DONE', 'CANCELED')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	return r.listOrders(ctx, query, crewID, limit, offset)
}

// classifyGuardMiss translates a zero-row conditional update into the
// appropriate error by re-reading the order's actual state.
func (r *PgxOrderRepository) classifyGuardMiss(ctx context.Context, orderID string, wrongStateErr error) error {
	order, findErr := r.FindOrderByID(ctx, orderID)
	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check order state after guarded update of %s: %w", orderID, findErr)
	}
	if order.Status.IsLocked() {
		return fmt.Errorf("%w: order %s is %s", apperrors.ErrOrderLocked, orderID, order.Status)
	}
	return wrongStateErr
}

// ClaimOrder moves a NEW order to PROCESSING and assigns the crew. The guard
// on the prior status makes concurrent claims race safely: exactly one wins.
func (r *PgxOrderRepository) ClaimOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, crew_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE order_id = $1 AND status = $6 AND crew_id IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		orderID,
		string(domain.OrderProcessing),
		crewID,
		now,
		actorID,
		string(domain.OrderNew),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to claim order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, orderID,
			fmt.Errorf("%w: order %s already claimed", apperrors.ErrConflict, orderID))
	}
	return nil
}

// UpdateOrderStatus moves an order along a single status edge, guarded by the
// expected prior status.
func (r *PgxOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actorID string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, string(to), now, actorID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, orderID,
			fmt.Errorf("%w: order %s is no longer %s", apperrors.ErrConflict, orderID, from))
	}
	return nil
}

// ReleaseOrder returns an in-progress order held by crewID to the NEW pool.
func (r *PgxOrderRepository) ReleaseOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, crew_id = NULL, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1 AND crew_id = $5 AND status IN ('PROCESSING', 'WORK');
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, string(domain.OrderNew), now, actorID, crewID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to release order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, orderID,
			fmt.Errorf("%w: order %s is not held by crew %s", apperrors.ErrConflict, orderID, crewID))
	}
	return nil
}

// ReassignOrder moves an in-progress order held by fromCrew to toCrew.
func (r *PgxOrderRepository) ReassignOrder(ctx context.Context, orderID, fromCrew, toCrew, actorID string, now time.Time) error {
	query := `
		UPDATE orders
		SET crew_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE order_id = $1 AND crew_id = $5 AND status IN ('PROCESSING', 'WORK');
	`
	cmdTag, err := r.Pool.Exec(ctx, query, orderID, toCrew, now, actorID, fromCrew)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reassign order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.classifyGuardMiss(ctx, orderID,
			fmt.Errorf("%w: order %s is not held by crew %s", apperrors.ErrConflict, orderID, fromCrew))
	}
	return nil
}

// AppendExpense inserts the expense line and folds its amount into the
// order's financial record in one database transaction. The arithmetic runs
// in SQL against the current row, so net_profit always equals
// final_price - total_expenses even under concurrent appends.
func (r *PgxOrderRepository) AppendExpense(ctx context.Context, expense domain.Expense) (*domain.Financials, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE orders
		SET total_expenses = total_expenses + $2,
		    net_profit = final_price - (total_expenses + $2),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE order_id = $1 AND status NOT IN ('DONE', 'CANCELED')
		RETURNING final_price, total_expenses, net_profit;
	`
	var fin domain.Financials
	err = tx.QueryRow(ctx, updateQuery, expense.OrderID, expense.Amount, expense.CreatedAt, expense.CreatedBy).
		Scan(&fin.FinalPrice, &fin.TotalExpenses, &fin.NetProfit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyGuardMiss(ctx, expense.OrderID,
				fmt.Errorf("%w: order %s changed state during expense append", apperrors.ErrConflict, expense.OrderID))
		}
		return nil, apperrors.NewAppError(500, "failed to update financials of order "+expense.OrderID, err)
	}

	m := mapping.ToModelExpense(expense)
	insertQuery := `
		INSERT INTO expenses (expense_id, order_id, amount, category, comment, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, insertQuery, m.ExpenseID, m.OrderID, m.Amount, m.Category, m.Comment, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert expense for order "+expense.OrderID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &fin, nil
}

// UpdateFinalPrice overwrites the final price and recomputes net profit,
// guarded against locked orders.
func (r *PgxOrderRepository) UpdateFinalPrice(ctx context.Context, orderID string, price decimal.Decimal, actorID string, now time.Time) (*domain.Financials, error) {
	query := `
		UPDATE orders
		SET final_price = $2,
		    net_profit = $2 - total_expenses,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE order_id = $1 AND status NOT IN ('DONE', 'CANCELED')
		RETURNING final_price, total_expenses, net_profit;
	`
	var fin domain.Financials
	err := r.Pool.QueryRow(ctx, query, orderID, price, now, actorID).
		Scan(&fin.FinalPrice, &fin.TotalExpenses, &fin.NetProfit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyGuardMiss(ctx, orderID,
				fmt.Errorf("%w: order %s changed state during price update", apperrors.ErrConflict, orderID))
		}
		return nil, apperrors.NewAppError(500, "failed to update final price of order "+orderID, err)
	}
	return &fin, nil
}

// FinalizeOrder locks the order as DONE and posts the settlement ledger
// entries in one database transaction. The conditional status update doubles
// as the one-shot guard: of two concurrent finalize calls, the loser's update
// matches zero rows and nothing it did is committed.
func (r *PgxOrderRepository) FinalizeOrder(ctx context.Context, orderID string, expected domain.OrderStatus, crewShare, ownerShare decimal.Decimal, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE orders
		SET status = $2, crew_share = $3, owner_share = $4, settled_at = $5,
		    last_updated_at = $5, last_updated_by = $6
		WHERE order_id = $1 AND status = $7 AND settled_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		orderID,
		string(domain.OrderDone),
		crewShare,
		ownerShare,
		now,
		actorID,
		string(expected),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to finalize order "+orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		order, findErr := r.FindOrderByID(ctx, orderID)
		if findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to check order state after finalize attempt on %s: %w", orderID, findErr)
		}
		if order.Settled() || order.Status == domain.OrderDone {
			return fmt.Errorf("%w: order %s already finalized", apperrors.ErrConflict, orderID)
		}
		return fmt.Errorf("%w: order %s is %s, expected %s", apperrors.ErrConflict, orderID, order.Status, expected)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for settlement of order "+orderID, err)
	}
	if err := r.accountRepo.InsertTransactionsInTx(ctx, tx, entries); err != nil {
		return apperrors.NewAppError(500, "failed to insert settlement entries for order "+orderID, err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update balances for settlement of order "+orderID, err)
	}

	return r.Commit(ctx, tx)
}
