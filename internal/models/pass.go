package models

import "time"

// PassType classifies a toll traversal relative to the tag's home operator.
type PassType string

const (
	PassTypeHome    PassType = "home"
	PassTypeVisitor PassType = "visitor"
)

// Pass is one toll traversal event. Append-only; the natural key is
// (timestamp, tollid, transceiverid).
type Pass struct {
	Timestamp     time.Time `db:"timestamp" json:"timestamp"`
	TollID        string    `db:"tollid" json:"tollid"`
	TransceiverID string    `db:"transceiverid" json:"transceiverid"`
	Charge        float64   `db:"charge" json:"charge"`
}
