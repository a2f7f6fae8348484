package csvdata

import "strconv"

// Station is one row of the station reference CSV. Numeric fields stay raw;
// they are parsed where the value is actually consumed.
type Station struct {
	TollID   string
	OpID     string
	Operator string
	Name     string
	Lat      string
	Long     string
	Price1   string
	Price2   string
	Price3   string
	Price4   string
}

// Tag is one row of the transceiver reference CSV.
type Tag struct {
	ID         string
	VehicleID  string
	OperatorID string
	Balance    string
	Active     bool
}

// PassEvent is one row of the pass-event CSV.
type PassEvent struct {
	Timestamp string
	TollID    string
	TagRef    string
	Charge    string
}

// Stations maps normalized rows onto station records.
func Stations(rows []Row) []Station {
	out := make([]Station, 0, len(rows))
	for _, r := range rows {
		out = append(out, Station{
			TollID:   r["tollid"],
			OpID:     r["opid"],
			Operator: r["operator"],
			Name:     r["name"],
			Lat:      r["lat"],
			Long:     r["long"],
			Price1:   r["price1"],
			Price2:   r["price2"],
			Price3:   r["price3"],
			Price4:   r["price4"],
		})
	}
	return out
}

// Tags maps normalized rows onto transceiver records.
func Tags(rows []Row) []Tag {
	out := make([]Tag, 0, len(rows))
	for _, r := range rows {
		out = append(out, Tag{
			ID:         r["id"],
			VehicleID:  r["vehicleid"],
			OperatorID: r["operatorid"],
			Balance:    r["balance"],
			Active:     r["active"] == "true",
		})
	}
	return out
}

// Passes maps normalized rows onto pass-event records.
func Passes(rows []Row) []PassEvent {
	out := make([]PassEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, PassEvent{
			Timestamp: r["timestamp"],
			TollID:    r["tollid"],
			TagRef:    r["tagref"],
			Charge:    r["charge"],
		})
	}
	return out
}

// Float parses a decimal field, coercing malformed or missing values to zero.
func Float(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
