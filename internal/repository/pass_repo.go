package repository

import (
	"context"
	"database/sql"

	"tollway/internal/models"
)

// PassRepository persists transceivers and pass-through events.
type PassRepository struct {
	db *sql.DB
}

// NewPassRepository returns repository instance.
func NewPassRepository(db *sql.DB) *PassRepository {
	return &PassRepository{db: db}
}

// InsertTagTx inserts a transceiver, leaving pre-existing rows untouched.
func (r *PassRepository) InsertTagTx(ctx context.Context, tx *sql.Tx, t models.Transceiver) error {
	const query = `
		INSERT INTO transceiver (id, vehicleid, operatorid, balance, active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, t.ID, t.VehicleID, t.OperatorID, t.Balance, t.Active)
	return err
}

// InsertPassTx inserts a pass event; duplicates on the natural key are
// silently ignored. Reports whether a row was actually written.
func (r *PassRepository) InsertPassTx(ctx context.Context, tx *sql.Tx, p models.Pass) (bool, error) {
	const query = `
		INSERT INTO passthrough (timestamp, tollid, transceiverid, charge)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`
	res, err := tx.ExecContext(ctx, query, p.Timestamp, p.TollID, p.TransceiverID, p.Charge)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// TagIDsTx returns every transceiver id currently stored.
func (r *PassRepository) TagIDsTx(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM transceiver`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// TruncatePassDataTx empties pass events and transceivers together.
func (r *PassRepository) TruncatePassDataTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `TRUNCATE TABLE passthrough, transceiver RESTART IDENTITY`)
	return err
}

// TagCount returns the number of transceiver rows.
func (r *PassRepository) TagCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transceiver`).Scan(&n)
	return n, err
}

// PassCount returns the number of pass-through rows.
func (r *PassRepository) PassCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passthrough`).Scan(&n)
	return n, err
}
