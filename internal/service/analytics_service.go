package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tollway/internal/cache"
	"tollway/internal/models"
	"tollway/internal/repository"
)

// UserOverview bundles a normal user's balance and pass history.
type UserOverview struct {
	Balance float64                 `json:"balance"`
	History []repository.HistoryRow `json:"history"`
}

// SettlementLedger reads summed debt rows involving one operator.
type SettlementLedger interface {
	PairTotals(ctx context.Context, operatorID string) ([]repository.PairTotal, error)
}

// AnalyticsService serves the reporting and dashboard queries. Ranking
// results are cached briefly since the dashboards poll them.
type AnalyticsService struct {
	analytics   *repository.AnalyticsRepository
	settlements SettlementLedger
	rankings    *cache.RankingsCache
	logger      *zap.Logger
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(
	analytics *repository.AnalyticsRepository,
	settlements SettlementLedger,
	rankings *cache.RankingsCache,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analytics:   analytics,
		settlements: settlements,
		rankings:    rankings,
		logger:      logger,
	}
}

// StationPasses lists one station's passes in a date range.
func (s *AnalyticsService) StationPasses(ctx context.Context, tollID, from, to string) ([]repository.StationPassRow, error) {
	return s.analytics.StationPasses(ctx, tollID, from, to)
}

// PassAnalysis lists passes for a (station operator, tag operator) pair.
func (s *AnalyticsService) PassAnalysis(ctx context.Context, stationOp, tagOp, from, to string) ([]repository.AnalysisPassRow, error) {
	return s.analytics.PassAnalysis(ctx, stationOp, tagOp, from, to)
}

// PassesCost returns count and total charge for an operator pair.
func (s *AnalyticsService) PassesCost(ctx context.Context, tollOp, tagOp, from, to string) (int, float64, error) {
	return s.analytics.PassesCost(ctx, tollOp, tagOp, from, to)
}

// ChargesBy groups visitor traffic at one operator's stations by tag operator.
func (s *AnalyticsService) ChargesBy(ctx context.Context, tollOp, from, to string) ([]repository.OperatorCharges, error) {
	return s.analytics.ChargesBy(ctx, tollOp, from, to)
}

// SettlementBalances nets the ledger per counter-operator from the given
// operator's viewpoint: pairs where it is the payer count negative.
func (s *AnalyticsService) SettlementBalances(ctx context.Context, operatorID string) ([]models.OperatorBalance, error) {
	totals, err := s.settlements.PairTotals(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	byOther := make(map[string]decimal.Decimal)
	for _, t := range totals {
		if t.Payer == operatorID {
			byOther[t.Payee] = byOther[t.Payee].Sub(t.Amount)
		} else {
			byOther[t.Payer] = byOther[t.Payer].Add(t.Amount)
		}
	}

	others := make([]string, 0, len(byOther))
	for other := range byOther {
		others = append(others, other)
	}
	sort.Strings(others)

	balances := make([]models.OperatorBalance, 0, len(others))
	for _, other := range others {
		balances = append(balances, models.OperatorBalance{
			OtherOperator:   other,
			TotalSettlement: byOther[other],
		})
	}
	return balances, nil
}

// UserOverview returns a user's tag balance total and pass history.
func (s *AnalyticsService) UserOverview(ctx context.Context, username, from, to string) (*UserOverview, error) {
	balance, err := s.analytics.UserBalance(ctx, username)
	if err != nil {
		return nil, err
	}
	history, err := s.analytics.UserHistory(ctx, username, from, to)
	if err != nil {
		return nil, err
	}
	return &UserOverview{Balance: balance, History: history}, nil
}

// StationPopularity ranks stations by traffic; empty operatorID means global.
func (s *AnalyticsService) StationPopularity(ctx context.Context, operatorID, from, to string) ([]repository.PopularityRow, error) {
	key := fmt.Sprintf("rankings:station-popularity:%s:%s:%s", operatorID, from, to)
	var cached []repository.PopularityRow
	if s.rankings.Get(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.analytics.StationPopularity(ctx, operatorID, from, to)
	if err != nil {
		return nil, err
	}
	s.rankings.Set(ctx, key, rows)
	return rows, nil
}

// VehicleTypeRank ranks vehicle categories at one operator's stations.
func (s *AnalyticsService) VehicleTypeRank(ctx context.Context, operatorID, from, to string) ([]repository.VehicleTypeRow, error) {
	key := fmt.Sprintf("rankings:vehicle-type:%s:%s:%s", operatorID, from, to)
	var cached []repository.VehicleTypeRow
	if s.rankings.Get(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.analytics.VehicleTypeRank(ctx, operatorID, from, to)
	if err != nil {
		return nil, err
	}
	s.rankings.Set(ctx, key, rows)
	return rows, nil
}
