package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
)

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = `id, session_id, amount, method, status, transaction_ref, operator_id, processed_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID, &p.SessionID, &p.Amount, &p.Method, &p.Status,
		&p.TransactionRef, &p.OperatorID, &p.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO payments (id, session_id, amount, method, status, transaction_ref, operator_id, processed_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := q.Exec(ctx, query,
		payment.ID, payment.SessionID, payment.Amount, payment.Method, payment.Status,
		payment.TransactionRef, payment.OperatorID, payment.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("payment repo: Create: %w", err)
	}
	return nil
}

func (r *PaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1;`

	payment, err := scanPayment(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("payment repo: FindByID: %w", err)
	}
	return payment, nil
}

func (r *PaymentRepo) FindBySessionID(ctx context.Context, sessionID uuid.UUID) (*models.Payment, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1;`

	payment, err := scanPayment(q.QueryRow(ctx, query, sessionID))
	if err != nil {
		return nil, fmt.Errorf("payment repo: FindBySessionID: %w", err)
	}
	return payment, nil
}

func (r *PaymentRepo) List(ctx context.Context, filters models.Filters) ([]models.Payment, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
        SELECT count(*) OVER(), %s
        FROM payments
        ORDER BY %s %s, id ASC
        LIMIT $1 OFFSET $2;`, paymentColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("payment repo: List: %w", err)
	}
	defer rows.Close()

	totalRecords := 0
	payments := []models.Payment{}

	for rows.Next() {
		var p models.Payment
		err := rows.Scan(
			&totalRecords,
			&p.ID, &p.SessionID, &p.Amount, &p.Method, &p.Status,
			&p.TransactionRef, &p.OperatorID, &p.ProcessedAt,
		)
		if err != nil {
			return nil, models.Metadata{}, fmt.Errorf("payment repo: List scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("payment repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return payments, metadata, nil
}

func (r *PaymentRepo) SumProcessedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	q := TxorDB(ctx, r.db)

	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE processed_at >= $1 AND processed_at < $2;`

	if err := q.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("payment repo: SumProcessedBetween: %w", err)
	}
	return total, nil
}
