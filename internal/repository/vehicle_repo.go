package repository

import (
	"context"
	"database/sql"

	"tollway/internal/models"
)

// VehicleRepository handles the vehicle catalog.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns repository instance.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// SeedTx inserts a vehicle inside an ongoing transaction, ignoring duplicates.
func (r *VehicleRepository) SeedTx(ctx context.Context, tx *sql.Tx, v models.Vehicle) error {
	const query = `
		INSERT INTO vehicle (license_plate, license_year, type, model, userid)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (license_plate) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, v.LicensePlate, v.LicenseYear, v.Type, v.Model, v.UserID)
	return err
}

// TruncateTx empties the vehicle table inside a transaction.
func (r *VehicleRepository) TruncateTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `TRUNCATE TABLE vehicle RESTART IDENTITY CASCADE`)
	return err
}

// Count returns the number of vehicle rows.
func (r *VehicleRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicle`).Scan(&n)
	return n, err
}
