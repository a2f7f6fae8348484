package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is a net obligation from payer to payee aggregated over one
// ingestion batch. Amount is positive from the payee's point of view: it is
// what the payer's tags incurred at the payee's stations.
type Settlement struct {
	ID       int64           `db:"id" json:"id"`
	Payer    string          `db:"payer" json:"payer"`
	Payee    string          `db:"payee" json:"payee"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Date     time.Time       `db:"date" json:"date"`
	Complete bool            `db:"complete" json:"complete"`
}

// OperatorBalance is the signed settlement total against one counter-operator,
// from the viewpoint of the operator that asked: negative where that operator
// is the payer.
type OperatorBalance struct {
	OtherOperator   string          `db:"other_operator" json:"other_operator"`
	TotalSettlement decimal.Decimal `db:"total_settlement" json:"total_settlement"`
}
