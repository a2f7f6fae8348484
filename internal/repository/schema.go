package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS operator (
		id VARCHAR(5) PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS "user" (
		username VARCHAR(255) PRIMARY KEY,
		password VARCHAR(255) NOT NULL,
		type VARCHAR(255) NOT NULL,
		operatorid VARCHAR(5) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vehicle (
		license_plate CHAR(6) PRIMARY KEY,
		license_year INT NOT NULL,
		type VARCHAR(20) NOT NULL,
		model VARCHAR(255),
		userid VARCHAR(255) REFERENCES "user"(username)
	)`,
	`CREATE TABLE IF NOT EXISTS toll_station (
		tollid VARCHAR(10) PRIMARY KEY,
		operatorid VARCHAR(5) REFERENCES operator(id),
		name VARCHAR(255),
		lat NUMERIC(10,6),
		long NUMERIC(10,6),
		price1 NUMERIC(10,2),
		price2 NUMERIC(10,2),
		price3 NUMERIC(10,2),
		price4 NUMERIC(10,2)
	)`,
	`CREATE TABLE IF NOT EXISTS transceiver (
		id VARCHAR(10) PRIMARY KEY,
		vehicleid VARCHAR(6),
		operatorid VARCHAR(5),
		balance NUMERIC(10,2),
		active BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS passthrough (
		timestamp TIMESTAMP,
		tollid VARCHAR(10) REFERENCES toll_station(tollid),
		transceiverid VARCHAR(10) REFERENCES transceiver(id),
		charge NUMERIC(10,2),
		UNIQUE (timestamp, tollid, transceiverid)
	)`,
	`CREATE TABLE IF NOT EXISTS debt_settlement (
		id SERIAL PRIMARY KEY,
		payer VARCHAR(5),
		payee VARCHAR(5),
		amount NUMERIC(12,2),
		date TIMESTAMP,
		complete BOOLEAN DEFAULT FALSE
	)`,
}

// EnsureSchema creates all tables when missing. Statements are idempotent so
// the call is safe on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
