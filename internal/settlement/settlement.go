// Package settlement classifies toll passes and aggregates inter-operator
// debts for one ingestion batch. All functions are pure: persistence is the
// caller's concern.
package settlement

import (
	"sort"

	"github.com/shopspring/decimal"

	"tollway/internal/csvdata"
	"tollway/internal/models"
)

// Classify tags a pass relative to the transceiver's home operator.
// Operator ids are compared exactly; both sides are already trimmed by the
// CSV normalization step.
func Classify(tagOperator, stationOperator string) models.PassType {
	if tagOperator == stationOperator {
		return models.PassTypeHome
	}
	return models.PassTypeVisitor
}

// Debt is the accumulated charge the payer operator owes the payee operator
// for one batch.
type Debt struct {
	Payer  string
	Payee  string
	Amount decimal.Decimal
}

// Skipped counts pass rows that contributed nothing to the aggregation.
type Skipped struct {
	MissingTag     int
	MissingStation int
}

// Compute aggregates visitor charges by (payer, payee) pair. Lookups go
// through maps built once per batch. Passes with an unknown tag or station
// are counted in Skipped; home traffic and passes with an empty operator on
// either side produce no debt. Malformed charges count as zero.
func Compute(passes []csvdata.PassEvent, tags []csvdata.Tag, stations []csvdata.Station) ([]Debt, Skipped) {
	tagByID := make(map[string]csvdata.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	stationByID := make(map[string]csvdata.Station, len(stations))
	for _, s := range stations {
		stationByID[s.TollID] = s
	}

	type pair struct{ payer, payee string }
	amounts := make(map[pair]decimal.Decimal)
	var skipped Skipped

	for _, p := range passes {
		tag, ok := tagByID[p.TagRef]
		if !ok {
			skipped.MissingTag++
			continue
		}
		station, ok := stationByID[p.TollID]
		if !ok {
			skipped.MissingStation++
			continue
		}

		payer := tag.OperatorID
		payee := station.OpID
		if payer == "" || payee == "" || payer == payee {
			continue
		}

		charge, err := decimal.NewFromString(p.Charge)
		if err != nil {
			charge = decimal.Zero
		}
		key := pair{payer: payer, payee: payee}
		amounts[key] = amounts[key].Add(charge)
	}

	debts := make([]Debt, 0, len(amounts))
	for key, amount := range amounts {
		debts = append(debts, Debt{Payer: key.payer, Payee: key.payee, Amount: amount})
	}
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].Payer != debts[j].Payer {
			return debts[i].Payer < debts[j].Payer
		}
		return debts[i].Payee < debts[j].Payee
	})
	return debts, skipped
}
