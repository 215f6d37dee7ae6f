package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/postgres"
)

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionColumns = `id, session_number, vehicle_id, plate, status, spot_label,
            hourly_rate, total_amount, entry_time, exit_time, operator_id, notes,
            created_at, updated_at`

// activePlateConstraint is the partial unique index enforcing one ACTIVE
// session per plate. parking_sessions also has session_number UNIQUE, so a
// bare 23505 check would misreport a number collision as a duplicate session.
const activePlateConstraint = "idx_parking_sessions_active_plate"

func scanSession(row pgx.Row) (*models.ParkingSession, error) {
	var s models.ParkingSession
	err := row.Scan(
		&s.ID, &s.SessionNumber, &s.VehicleID, &s.Plate, &s.Status, &s.SpotLabel,
		&s.HourlyRate, &s.TotalAmount, &s.EntryTime, &s.ExitTime, &s.OperatorID, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Create(ctx context.Context, session *models.ParkingSession) (*models.ParkingSession, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO parking_sessions
                (session_number, vehicle_id, plate, status, spot_label, hourly_rate, entry_time, operator_id, notes)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		session.SessionNumber, session.VehicleID, session.Plate, session.Status,
		session.SpotLabel, session.HourlyRate, session.EntryTime, session.OperatorID, session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		// The partial unique index on (plate) WHERE status = 'ACTIVE' backs
		// up the service-level duplicate check against concurrent creators.
		// Other unique violations (session_number) stay wrapped.
		if postgres.IsUniqueViolationOn(err, activePlateConstraint) {
			return nil, types.ErrDuplicateActiveSession
		}
		return nil, fmt.Errorf("session repo: Create: %w", err)
	}

	return session, nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ParkingSession, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE id = $1;`

	session, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("session repo: FindByID: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) FindActiveByPlate(ctx context.Context, plate string) (*models.ParkingSession, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE plate = $1 AND status = 'ACTIVE';`

	session, err := scanSession(q.QueryRow(ctx, query, plate))
	if err != nil {
		return nil, fmt.Errorf("session repo: FindActiveByPlate: %w", err)
	}
	return session, nil
}

func (r *SessionRepo) List(ctx context.Context, filters models.Filters) ([]models.ParkingSession, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
        SELECT count(*) OVER(), %s
        FROM parking_sessions
        ORDER BY %s %s, id ASC
        LIMIT $1 OFFSET $2;`, sessionColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("session repo: List: %w", err)
	}
	defer rows.Close()

	totalRecords := 0
	sessions := []models.ParkingSession{}

	for rows.Next() {
		var s models.ParkingSession
		err := rows.Scan(
			&totalRecords,
			&s.ID, &s.SessionNumber, &s.VehicleID, &s.Plate, &s.Status, &s.SpotLabel,
			&s.HourlyRate, &s.TotalAmount, &s.EntryTime, &s.ExitTime, &s.OperatorID, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, models.Metadata{}, fmt.Errorf("session repo: List scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("session repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return sessions, metadata, nil
}

// ListActive queries the source table directly; the active view is never
// materialized separately.
func (r *SessionRepo) ListActive(ctx context.Context) ([]models.ParkingSession, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + sessionColumns + ` FROM parking_sessions WHERE status = 'ACTIVE' ORDER BY entry_time ASC;`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("session repo: ListActive: %w", err)
	}
	defer rows.Close()

	sessions := []models.ParkingSession{}
	for rows.Next() {
		var s models.ParkingSession
		err := rows.Scan(
			&s.ID, &s.SessionNumber, &s.VehicleID, &s.Plate, &s.Status, &s.SpotLabel,
			&s.HourlyRate, &s.TotalAmount, &s.EntryTime, &s.ExitTime, &s.OperatorID, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("session repo: ListActive scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session repo: ListActive rows: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepo) CountByDate(ctx context.Context, date time.Time) (int, error) {
	q := TxorDB(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM parking_sessions WHERE DATE(entry_time) = $1;`

	if err := q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, fmt.Errorf("session repo: CountByDate: %w", err)
	}
	return count, nil
}

// Complete applies the COMPLETED transition. The WHERE clause only matches
// while the row is still ACTIVE, so a lost race affects zero rows and comes
// back as ErrSessionNotActive.
func (r *SessionRepo) Complete(ctx context.Context, session *models.ParkingSession) error {
	q := TxorDB(ctx, r.db)

	query := `
        UPDATE parking_sessions
        SET status = 'COMPLETED', exit_time = $2, total_amount = $3, notes = $4, updated_at = now()
        WHERE id = $1 AND status = 'ACTIVE';`

	cmdTag, err := q.Exec(ctx, query, session.ID, session.ExitTime, session.TotalAmount, session.Notes)
	if err != nil {
		return fmt.Errorf("session repo: Complete: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrSessionNotActive
	}
	return nil
}

// Cancel applies the CANCELLED transition with the same conditional guard as
// Complete.
func (r *SessionRepo) Cancel(ctx context.Context, session *models.ParkingSession) error {
	q := TxorDB(ctx, r.db)

	query := `
        UPDATE parking_sessions
        SET status = 'CANCELLED', exit_time = $2, notes = $3, updated_at = now()
        WHERE id = $1 AND status = 'ACTIVE';`

	cmdTag, err := q.Exec(ctx, query, session.ID, session.ExitTime, session.Notes)
	if err != nil {
		return fmt.Errorf("session repo: Cancel: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrSessionNotActive
	}
	return nil
}
