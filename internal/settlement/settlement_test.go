package settlement

import (
	"testing"

	"github.com/shopspring/decimal"

	"tollway/internal/csvdata"
	"tollway/internal/models"
)

func TestClassify(t *testing.T) {
	if got := Classify("NAO", "NAO"); got != models.PassTypeHome {
		t.Fatalf("expected home for matching operators, got %s", got)
	}
	if got := Classify("NAO", "AM"); got != models.PassTypeVisitor {
		t.Fatalf("expected visitor for differing operators, got %s", got)
	}
	if got := Classify("nao", "NAO"); got != models.PassTypeVisitor {
		t.Fatalf("expected case-sensitive comparison, got %s", got)
	}
}

func TestComputeAggregatesByOperatorPair(t *testing.T) {
	tags := []csvdata.Tag{
		{ID: "tag-1", OperatorID: "NAO"},
		{ID: "tag-2", OperatorID: "AM"},
	}
	stations := []csvdata.Station{
		{TollID: "AM01", OpID: "AM"},
		{TollID: "NAO01", OpID: "NAO"},
	}
	passes := []csvdata.PassEvent{
		{TollID: "AM01", TagRef: "tag-1", Charge: "2.50"},
		{TollID: "AM01", TagRef: "tag-1", Charge: "1.25"},
		{TollID: "NAO01", TagRef: "tag-2", Charge: "3.00"},
		{TollID: "AM01", TagRef: "tag-2", Charge: "9.99"}, // home, no debt
	}

	debts, skipped := Compute(passes, tags, stations)
	if skipped.MissingTag != 0 || skipped.MissingStation != 0 {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
	if len(debts) != 2 {
		t.Fatalf("expected 2 debts, got %d: %+v", len(debts), debts)
	}

	// Sorted by payer then payee.
	if debts[0].Payer != "AM" || debts[0].Payee != "NAO" {
		t.Fatalf("unexpected first debt: %+v", debts[0])
	}
	if !debts[0].Amount.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("expected AM owes NAO 3.00, got %s", debts[0].Amount)
	}
	if debts[1].Payer != "NAO" || debts[1].Payee != "AM" {
		t.Fatalf("unexpected second debt: %+v", debts[1])
	}
	if !debts[1].Amount.Equal(decimal.RequireFromString("3.75")) {
		t.Fatalf("expected NAO owes AM 3.75, got %s", debts[1].Amount)
	}
}

func TestComputeVisitorPassCreatesSingleDebt(t *testing.T) {
	tags := []csvdata.Tag{{ID: "T1", OperatorID: "AM"}}
	stations := []csvdata.Station{
		{TollID: "NAO01", OpID: "NAO"},
		{TollID: "AM01", OpID: "AM"},
	}
	passes := []csvdata.PassEvent{
		{TollID: "NAO01", TagRef: "T1", Charge: "2.50"},
		{TollID: "AM01", TagRef: "T1", Charge: "1.00"}, // home station
	}

	debts, _ := Compute(passes, tags, stations)
	if len(debts) != 1 {
		t.Fatalf("expected exactly one debt, got %+v", debts)
	}
	if debts[0].Payer != "AM" || debts[0].Payee != "NAO" {
		t.Fatalf("expected AM to owe NAO, got %+v", debts[0])
	}
	if !debts[0].Amount.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("expected 2.50, got %s", debts[0].Amount)
	}
}

func TestComputeSkipsMissingReferences(t *testing.T) {
	tags := []csvdata.Tag{{ID: "tag-1", OperatorID: "NAO"}}
	stations := []csvdata.Station{{TollID: "AM01", OpID: "AM"}}
	passes := []csvdata.PassEvent{
		{TollID: "AM01", TagRef: "ghost", Charge: "2.00"},
		{TollID: "GHOST", TagRef: "tag-1", Charge: "2.00"},
		{TollID: "AM01", TagRef: "tag-1", Charge: "2.00"},
	}

	debts, skipped := Compute(passes, tags, stations)
	if skipped.MissingTag != 1 {
		t.Fatalf("expected 1 missing tag, got %d", skipped.MissingTag)
	}
	if skipped.MissingStation != 1 {
		t.Fatalf("expected 1 missing station, got %d", skipped.MissingStation)
	}
	if len(debts) != 1 {
		t.Fatalf("expected 1 debt, got %d", len(debts))
	}
}

func TestComputeIgnoresEmptyOperators(t *testing.T) {
	tags := []csvdata.Tag{
		{ID: "tag-1", OperatorID: ""},
		{ID: "tag-2", OperatorID: "NAO"},
	}
	stations := []csvdata.Station{
		{TollID: "AM01", OpID: "AM"},
		{TollID: "X01", OpID: ""},
	}
	passes := []csvdata.PassEvent{
		{TollID: "AM01", TagRef: "tag-1", Charge: "2.00"},
		{TollID: "X01", TagRef: "tag-2", Charge: "2.00"},
	}

	debts, skipped := Compute(passes, tags, stations)
	if skipped.MissingTag != 0 || skipped.MissingStation != 0 {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
	if len(debts) != 0 {
		t.Fatalf("expected no debts for empty operators, got %+v", debts)
	}
}

func TestComputeMalformedChargeCountsAsZero(t *testing.T) {
	tags := []csvdata.Tag{{ID: "tag-1", OperatorID: "NAO"}}
	stations := []csvdata.Station{{TollID: "AM01", OpID: "AM"}}
	passes := []csvdata.PassEvent{
		{TollID: "AM01", TagRef: "tag-1", Charge: "oops"},
		{TollID: "AM01", TagRef: "tag-1", Charge: "1.10"},
	}

	debts, _ := Compute(passes, tags, stations)
	if len(debts) != 1 {
		t.Fatalf("expected 1 debt, got %d", len(debts))
	}
	if !debts[0].Amount.Equal(decimal.RequireFromString("1.10")) {
		t.Fatalf("expected 1.10, got %s", debts[0].Amount)
	}
}
