package repository

import (
	"context"
	"database/sql"
	"time"

	"tollway/internal/models"
)

// Open-ended defaults for optional date-range filters on analytics queries.
const (
	minRangeDate = "1970-01-01"
	maxRangeDate = "3000-01-01"
)

// StationPassRow is one pass at a station, classified at read time.
type StationPassRow struct {
	Timestamp   time.Time
	TagID       string
	TagOperator string
	Charge      float64
	PassType    models.PassType
}

// AnalysisPassRow is one pass of a tag operator at a station operator's stations.
type AnalysisPassRow struct {
	Timestamp time.Time
	StationID string
	TagID     string
	Charge    float64
}

// OperatorCharges aggregates visiting traffic from one tag operator.
type OperatorCharges struct {
	OpID     string  `json:"op_ID"`
	OpNumber int     `json:"op_number"`
	OpAmount float64 `json:"op_amount"`
}

// HistoryRow is one entry of a user's pass history.
type HistoryRow struct {
	Timestamp   time.Time `json:"timestamp"`
	StationName string    `json:"station_name"`
	Charge      float64   `json:"charge"`
}

// PopularityRow ranks one station by traffic.
type PopularityRow struct {
	StationName string `json:"station_name"`
	PassCount   int    `json:"passthrough_count"`
}

// VehicleTypeRow ranks one vehicle category by traffic.
type VehicleTypeRow struct {
	VehicleType string `json:"vehicle_type"`
	PassCount   int    `json:"passthrough_count"`
}

// AnalyticsRepository serves the read-only reporting queries.
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository returns repository instance.
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// StationPasses lists passes at one station within an inclusive calendar-date
// range, oldest first, each tagged home or visitor.
func (r *AnalyticsRepository) StationPasses(ctx context.Context, tollID, from, to string) ([]StationPassRow, error) {
	const query = `
		SELECT
			p.timestamp,
			t.id AS tagid,
			t.operatorid AS tagoperator,
			p.charge,
			CASE WHEN t.operatorid = ts.operatorid THEN 'home' ELSE 'visitor' END AS passtype
		FROM passthrough p
		JOIN transceiver t ON p.transceiverid = t.id
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE p.tollid = $1
		AND p.timestamp::date BETWEEN $2::date AND $3::date
		ORDER BY p.timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tollID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StationPassRow
	for rows.Next() {
		var row StationPassRow
		if err := rows.Scan(&row.Timestamp, &row.TagID, &row.TagOperator, &row.Charge, &row.PassType); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PassAnalysis lists passes where the station belongs to stationOp and the
// tag belongs to tagOp.
func (r *AnalyticsRepository) PassAnalysis(ctx context.Context, stationOp, tagOp, from, to string) ([]AnalysisPassRow, error) {
	const query = `
		SELECT p.timestamp, ts.tollid AS stationid, t.id AS tagid, p.charge
		FROM passthrough p
		JOIN transceiver t ON p.transceiverid = t.id
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE ts.operatorid = $1
		AND t.operatorid = $2
		AND p.timestamp::date BETWEEN $3::date AND $4::date
		ORDER BY p.timestamp ASC
	`
	rows, err := r.db.QueryContext(ctx, query, stationOp, tagOp, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisPassRow
	for rows.Next() {
		var row AnalysisPassRow
		if err := rows.Scan(&row.Timestamp, &row.StationID, &row.TagID, &row.Charge); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// PassesCost returns the pass count and total charge for one operator pair.
func (r *AnalyticsRepository) PassesCost(ctx context.Context, tollOp, tagOp, from, to string) (int, float64, error) {
	const query = `
		SELECT COUNT(*) AS pass_count, COALESCE(SUM(p.charge), 0) AS total_cost
		FROM passthrough p
		JOIN transceiver t ON p.transceiverid = t.id
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE ts.operatorid = $1
		AND t.operatorid = $2
		AND p.timestamp::date BETWEEN $3::date AND $4::date
	`
	var count int
	var total float64
	err := r.db.QueryRowContext(ctx, query, tollOp, tagOp, from, to).Scan(&count, &total)
	return count, total, err
}

// ChargesBy groups visiting traffic at one operator's stations by the tag
// operator. Home traffic is excluded.
func (r *AnalyticsRepository) ChargesBy(ctx context.Context, tollOp, from, to string) ([]OperatorCharges, error) {
	const query = `
		SELECT t.operatorid AS op_id, COUNT(*) AS op_number, COALESCE(SUM(p.charge), 0) AS op_amount
		FROM passthrough p
		JOIN transceiver t ON p.transceiverid = t.id
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE ts.operatorid = $1
		AND t.operatorid != $1
		AND p.timestamp::date BETWEEN $2::date AND $3::date
		GROUP BY t.operatorid
		ORDER BY t.operatorid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, tollOp, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OperatorCharges
	for rows.Next() {
		var row OperatorCharges
		if err := rows.Scan(&row.OpID, &row.OpNumber, &row.OpAmount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UserBalance sums prepaid balances across all of the user's tags.
func (r *AnalyticsRepository) UserBalance(ctx context.Context, username string) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(balance), 0)
		FROM transceiver
		WHERE vehicleid IN (SELECT license_plate FROM vehicle WHERE userid = $1)
	`
	var balance float64
	err := r.db.QueryRowContext(ctx, query, username).Scan(&balance)
	return balance, err
}

// UserHistory lists the user's passes in a timestamp range, newest first.
func (r *AnalyticsRepository) UserHistory(ctx context.Context, username, from, to string) ([]HistoryRow, error) {
	if from == "" {
		from = minRangeDate
	}
	if to == "" {
		to = maxRangeDate
	}
	const query = `
		SELECT p.timestamp, ts.name AS station_name, p.charge
		FROM passthrough p
		JOIN toll_station ts ON p.tollid = ts.tollid
		JOIN transceiver t ON p.transceiverid = t.id
		WHERE t.vehicleid IN (SELECT license_plate FROM vehicle WHERE userid = $1)
		AND p.timestamp BETWEEN $2::timestamp AND $3::timestamp
		ORDER BY p.timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, username, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var row HistoryRow
		if err := rows.Scan(&row.Timestamp, &row.StationName, &row.Charge); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// StationPopularity ranks stations by pass count, busiest first. An empty
// operatorID ranks across every operator.
func (r *AnalyticsRepository) StationPopularity(ctx context.Context, operatorID, from, to string) ([]PopularityRow, error) {
	if from == "" {
		from = minRangeDate
	}
	if to == "" {
		to = maxRangeDate
	}
	const query = `
		SELECT ts.name AS station_name, COUNT(p.tollid) AS passthrough_count
		FROM passthrough p
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE ($1 = '' OR ts.operatorid = $1)
		AND p.timestamp BETWEEN $2::timestamp AND $3::timestamp
		GROUP BY ts.name
		ORDER BY passthrough_count DESC
	`
	rows, err := r.db.QueryContext(ctx, query, operatorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PopularityRow
	for rows.Next() {
		var row PopularityRow
		if err := rows.Scan(&row.StationName, &row.PassCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// VehicleTypeRank ranks vehicle categories passing one operator's stations.
func (r *AnalyticsRepository) VehicleTypeRank(ctx context.Context, operatorID, from, to string) ([]VehicleTypeRow, error) {
	if from == "" {
		from = minRangeDate
	}
	if to == "" {
		to = maxRangeDate
	}
	const query = `
		SELECT v.type AS vehicle_type, COUNT(p.transceiverid) AS passthrough_count
		FROM passthrough p
		JOIN transceiver t ON p.transceiverid = t.id
		JOIN vehicle v ON t.vehicleid = v.license_plate
		JOIN toll_station ts ON p.tollid = ts.tollid
		WHERE ts.operatorid = $1
		AND p.timestamp BETWEEN $2::timestamp AND $3::timestamp
		GROUP BY v.type
		ORDER BY passthrough_count DESC
	`
	rows, err := r.db.QueryContext(ctx, query, operatorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VehicleTypeRow
	for rows.Next() {
		var row VehicleTypeRow
		if err := rows.Scan(&row.VehicleType, &row.PassCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
