package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementRepository persists the inter-operator debt ledger.
type SettlementRepository struct {
	db *sql.DB
}

// NewSettlementRepository returns repository instance.
func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// InsertTx appends one settlement row for the batch being ingested.
func (r *SettlementRepository) InsertTx(ctx context.Context, tx *sql.Tx, payer, payee string, amount decimal.Decimal, date time.Time) error {
	const query = `
		INSERT INTO debt_settlement (payer, payee, amount, date, complete)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, payer, payee, amount, date)
	return err
}

// PairTotal is the summed ledger amount for one (payer, payee) pair.
type PairTotal struct {
	Payer  string
	Payee  string
	Amount decimal.Decimal
}

// PairTotals sums the ledger per (payer, payee) pair for every row involving
// the given operator. The viewpoint sign convention is applied by the caller.
func (r *SettlementRepository) PairTotals(ctx context.Context, operatorID string) ([]PairTotal, error) {
	const query = `
		SELECT payer, payee, COALESCE(SUM(amount), 0) AS total
		FROM debt_settlement
		WHERE payer = $1 OR payee = $1
		GROUP BY payer, payee
		ORDER BY payer, payee
	`
	rows, err := r.db.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []PairTotal
	for rows.Next() {
		var t PairTotal
		if err := rows.Scan(&t.Payer, &t.Payee, &t.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
