package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironslayer/parking-management-system/internal/domain/models"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/postgres"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, name, email, role, status, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (uuid.UUID, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO users (name, email, role, status, password_hash)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id;`

	var id uuid.UUID
	err := q.QueryRow(ctx, query, user.Name, user.Email, user.Role, user.Status, user.PasswordHash).Scan(&id)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("user repo: Create: %w", errors.New("email already taken"))
		}
		return uuid.Nil, fmt.Errorf("user repo: Create: %w", err)
	}

	user.ID = id
	return id, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`

	user, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("user repo: FindByEmail: %w", err)
	}
	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`

	user, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("user repo: FindByID: %w", err)
	}
	return user, nil
}

func (r *UserRepo) List(ctx context.Context, filters models.Filters) ([]models.User, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
        SELECT count(*) OVER(), %s
        FROM users
        ORDER BY %s %s, id ASC
        LIMIT $1 OFFSET $2;`, userColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("user repo: List: %w", err)
	}
	defer rows.Close()

	totalRecords := 0
	users := []models.User{}

	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&totalRecords,
			&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, models.Metadata{}, fmt.Errorf("user repo: List scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("user repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return users, metadata, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role types.UserRole) error {
	q := TxorDB(ctx, r.db)

	cmdTag, err := q.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1;`, id, role)
	if err != nil {
		return fmt.Errorf("user repo: UpdateRole: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status types.UserStatus) error {
	q := TxorDB(ctx, r.db)

	cmdTag, err := q.Exec(ctx, `UPDATE users SET status = $2, updated_at = now() WHERE id = $1;`, id, status)
	if err != nil {
		return fmt.Errorf("user repo: UpdateStatus: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}
