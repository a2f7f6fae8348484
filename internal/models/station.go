package models

// Operator owns toll stations and/or issues transceivers.
type Operator struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TollStation is one entry of the station catalog. The catalog mirrors the
// most recently loaded CSV snapshot in full.
type TollStation struct {
	TollID     string  `db:"tollid" json:"tollID"`
	OperatorID string  `db:"operatorid" json:"operatorID"`
	Name       string  `db:"name" json:"name"`
	Lat        float64 `db:"lat" json:"lat"`
	Long       float64 `db:"long" json:"long"`
	Price1     float64 `db:"price1" json:"price1"`
	Price2     float64 `db:"price2" json:"price2"`
	Price3     float64 `db:"price3" json:"price3"`
	Price4     float64 `db:"price4" json:"price4"`
}
