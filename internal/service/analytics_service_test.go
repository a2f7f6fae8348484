package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tollway/internal/repository"
)

type fakeSettlementLedger struct {
	totals []repository.PairTotal
}

func (f *fakeSettlementLedger) PairTotals(ctx context.Context, operatorID string) ([]repository.PairTotal, error) {
	return f.totals, nil
}

func TestSettlementBalancesSignedByViewpoint(t *testing.T) {
	ledger := &fakeSettlementLedger{totals: []repository.PairTotal{
		{Payer: "AM", Payee: "NAO", Amount: decimal.RequireFromString("3.00")},
		{Payer: "NAO", Payee: "AM", Amount: decimal.RequireFromString("1.25")},
		{Payer: "OO", Payee: "NAO", Amount: decimal.RequireFromString("2.00")},
	}}
	svc := NewAnalyticsService(nil, ledger, nil, zap.NewNop())

	balances, err := svc.SettlementBalances(context.Background(), "NAO")
	if err != nil {
		t.Fatalf("settlement balances: %v", err)
	}
	if len(balances) != 2 {
		t.Fatalf("expected 2 counter-operators, got %+v", balances)
	}

	// Sorted by counter-operator. AM nets 3.00 owed minus 1.25 paid.
	if balances[0].OtherOperator != "AM" {
		t.Fatalf("expected AM first, got %+v", balances[0])
	}
	if !balances[0].TotalSettlement.Equal(decimal.RequireFromString("1.75")) {
		t.Fatalf("expected net 1.75 against AM, got %s", balances[0].TotalSettlement)
	}
	if balances[1].OtherOperator != "OO" {
		t.Fatalf("expected OO second, got %+v", balances[1])
	}
	if !balances[1].TotalSettlement.Equal(decimal.RequireFromString("2.00")) {
		t.Fatalf("expected 2.00 against OO, got %s", balances[1].TotalSettlement)
	}
}

func TestSettlementBalancesNegativeWhenOnlyPayer(t *testing.T) {
	ledger := &fakeSettlementLedger{totals: []repository.PairTotal{
		{Payer: "NAO", Payee: "AM", Amount: decimal.RequireFromString("4.10")},
	}}
	svc := NewAnalyticsService(nil, ledger, nil, zap.NewNop())

	balances, err := svc.SettlementBalances(context.Background(), "NAO")
	if err != nil {
		t.Fatalf("settlement balances: %v", err)
	}
	if len(balances) != 1 {
		t.Fatalf("expected 1 balance, got %+v", balances)
	}
	if !balances[0].TotalSettlement.Equal(decimal.RequireFromString("-4.10")) {
		t.Fatalf("expected -4.10 from payer viewpoint, got %s", balances[0].TotalSettlement)
	}
}
