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

type VehicleRepo struct {
	db *pgxpool.Pool
}

func NewVehicleRepo(db *pgxpool.Pool) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `id, plate, category, make, model, color, owner_name, owner_phone, is_active, created_at, updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.Plate, &v.Category, &v.Make, &v.Model, &v.Color,
		&v.OwnerName, &v.OwnerPhone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO vehicles (plate, category, make, model, color, owner_name, owner_phone, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id, created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		vehicle.Plate, vehicle.Category, vehicle.Make, vehicle.Model, vehicle.Color,
		vehicle.OwnerName, vehicle.OwnerPhone, vehicle.IsActive,
	).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, types.ErrPlateAlreadyExists
		}
		return nil, fmt.Errorf("vehicle repo: Create: %w", err)
	}

	return vehicle, nil
}

func (r *VehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1;`

	vehicle, err := scanVehicle(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("vehicle repo: FindByID: %w", err)
	}
	return vehicle, nil
}

func (r *VehicleRepo) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = $1;`

	vehicle, err := scanVehicle(q.QueryRow(ctx, query, plate))
	if err != nil {
		return nil, fmt.Errorf("vehicle repo: FindByPlate: %w", err)
	}
	return vehicle, nil
}

func (r *VehicleRepo) List(ctx context.Context, filters models.Filters) ([]models.Vehicle, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`
        SELECT count(*) OVER(), %s
        FROM vehicles
        ORDER BY %s %s, id ASC
        LIMIT $1 OFFSET $2;`, vehicleColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("vehicle repo: List: %w", err)
	}
	defer rows.Close()

	totalRecords := 0
	vehicles := []models.Vehicle{}

	for rows.Next() {
		var v models.Vehicle
		err := rows.Scan(
			&totalRecords,
			&v.ID, &v.Plate, &v.Category, &v.Make, &v.Model, &v.Color,
			&v.OwnerName, &v.OwnerPhone, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, models.Metadata{}, fmt.Errorf("vehicle repo: List scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("vehicle repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return vehicles, metadata, nil
}

func (r *VehicleRepo) Update(ctx context.Context, id uuid.UUID, update models.VehicleUpdate) (*models.Vehicle, error) {
	q := TxorDB(ctx, r.db)

	query := `
        UPDATE vehicles
        SET
            make = COALESCE($2, make),
            model = COALESCE($3, model),
            color = COALESCE($4, color),
            owner_name = COALESCE($5, owner_name),
            owner_phone = COALESCE($6, owner_phone),
            updated_at = now()
        WHERE id = $1
        RETURNING ` + vehicleColumns + `;`

	vehicle, err := scanVehicle(q.QueryRow(ctx, query, id,
		update.Make, update.Model, update.Color, update.OwnerName, update.OwnerPhone,
	))
	if err != nil {
		return nil, fmt.Errorf("vehicle repo: Update: %w", err)
	}
	if vehicle == nil {
		return nil, types.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (r *VehicleRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE vehicles SET is_active = $2, updated_at = now() WHERE id = $1;`

	cmdTag, err := q.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("vehicle repo: SetActive: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return types.ErrVehicleNotFound
	}
	return nil
}

func (r *VehicleRepo) Count(ctx context.Context) (int, error) {
	q := TxorDB(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("vehicle repo: Count: %w", err)
	}
	return count, nil
}
