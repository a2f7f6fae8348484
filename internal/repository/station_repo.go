package repository

import (
	"context"
	"database/sql"
	"errors"

	"tollway/internal/models"
)

// ErrStationNotFound represents missing toll station rows.
var ErrStationNotFound = errors.New("toll station not found")

// StationRepository persists the operator and toll station catalogs.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// GetStation fetches one station by id.
func (r *StationRepository) GetStation(ctx context.Context, tollID string) (*models.TollStation, error) {
	const query = `
		SELECT tollid, operatorid, name, lat, long, price1, price2, price3, price4
		FROM toll_station
		WHERE tollid = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, tollID)
	var s models.TollStation
	if err := row.Scan(&s.TollID, &s.OperatorID, &s.Name, &s.Lat, &s.Long,
		&s.Price1, &s.Price2, &s.Price3, &s.Price4); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpsertOperatorTx inserts an operator or overwrites its display name.
func (r *StationRepository) UpsertOperatorTx(ctx context.Context, tx *sql.Tx, op models.Operator) error {
	const query = `
		INSERT INTO operator (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	_, err := tx.ExecContext(ctx, query, op.ID, op.Name)
	return err
}

// UpsertStationTx inserts a station or fully replaces its non-key fields.
func (r *StationRepository) UpsertStationTx(ctx context.Context, tx *sql.Tx, s models.TollStation) error {
	const query = `
		INSERT INTO toll_station (tollid, operatorid, name, lat, long, price1, price2, price3, price4)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tollid) DO UPDATE SET
			operatorid = EXCLUDED.operatorid,
			name = EXCLUDED.name,
			lat = EXCLUDED.lat,
			long = EXCLUDED.long,
			price1 = EXCLUDED.price1,
			price2 = EXCLUDED.price2,
			price3 = EXCLUDED.price3,
			price4 = EXCLUDED.price4
	`
	_, err := tx.ExecContext(ctx, query,
		s.TollID, s.OperatorID, s.Name, s.Lat, s.Long,
		s.Price1, s.Price2, s.Price3, s.Price4)
	return err
}

// DeleteStationsNotInTx purges stations absent from the current snapshot so
// the table mirrors the CSV exactly. Pass events referencing a purged station
// are removed with it.
func (r *StationRepository) DeleteStationsNotInTx(ctx context.Context, tx *sql.Tx, tollIDs []string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM passthrough WHERE NOT (tollid = ANY($1))`, tollIDs); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM toll_station WHERE NOT (tollid = ANY($1))`, tollIDs)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StationIDsTx returns every station id currently in the catalog.
func (r *StationRepository) StationIDsTx(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT tollid FROM toll_station`)
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

// Count returns the number of station rows.
func (r *StationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM toll_station`).Scan(&n)
	return n, err
}
