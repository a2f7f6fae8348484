package models

// Vehicle belongs to a user and carries at most one transceiver.
type Vehicle struct {
	LicensePlate string `db:"license_plate" json:"license_plate"`
	LicenseYear  int    `db:"license_year" json:"license_year"`
	Type         string `db:"type" json:"type"`
	Model        string `db:"model" json:"model"`
	UserID       string `db:"userid" json:"userid"`
}

// Transceiver is an in-vehicle tag with a prepaid balance and a home operator.
type Transceiver struct {
	ID         string  `db:"id" json:"id"`
	VehicleID  string  `db:"vehicleid" json:"vehicleid"`
	OperatorID string  `db:"operatorid" json:"operatorid"`
	Balance    float64 `db:"balance" json:"balance"`
	Active     bool    `db:"active" json:"active"`
}
