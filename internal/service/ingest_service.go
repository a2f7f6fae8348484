package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tollway/internal/csvdata"
	"tollway/internal/models"
	"tollway/internal/settlement"
)

// DataFiles names the CSV sources of truth for reference data.
type DataFiles struct {
	Stations     string
	Passes       string
	Transceivers string
	Users        string
	Vehicles     string
}

// HealthStats reports table row counts for the admin healthcheck.
type HealthStats struct {
	Stations int `json:"n_stations"`
	Tags     int `json:"n_tags"`
	Passes   int `json:"n_passes"`
}

// StationStore is the station catalog surface the ingest path writes to.
type StationStore interface {
	UpsertOperatorTx(ctx context.Context, tx *sql.Tx, op models.Operator) error
	UpsertStationTx(ctx context.Context, tx *sql.Tx, s models.TollStation) error
	DeleteStationsNotInTx(ctx context.Context, tx *sql.Tx, tollIDs []string) (int64, error)
	StationIDsTx(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error)
	Count(ctx context.Context) (int, error)
}

// PassStore persists transceivers and pass events.
type PassStore interface {
	InsertTagTx(ctx context.Context, tx *sql.Tx, t models.Transceiver) error
	InsertPassTx(ctx context.Context, tx *sql.Tx, p models.Pass) (bool, error)
	TagIDsTx(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error)
	TruncatePassDataTx(ctx context.Context, tx *sql.Tx) error
	TagCount(ctx context.Context) (int, error)
	PassCount(ctx context.Context) (int, error)
}

// SettlementStore appends debt rows for an ingested batch.
type SettlementStore interface {
	InsertTx(ctx context.Context, tx *sql.Tx, payer, payee string, amount decimal.Decimal, date time.Time) error
}

// UserStore seeds and truncates accounts.
type UserStore interface {
	SeedTx(ctx context.Context, tx *sql.Tx, user models.User) error
	TruncateTx(ctx context.Context, tx *sql.Tx) error
}

// VehicleStore seeds and truncates the vehicle catalog.
type VehicleStore interface {
	SeedTx(ctx context.Context, tx *sql.Tx, v models.Vehicle) error
	TruncateTx(ctx context.Context, tx *sql.Tx) error
}

// IngestService runs the CSV batch operations. Every multi-statement
// operation is one database transaction: all-or-nothing.
type IngestService struct {
	stations    StationStore
	passes      PassStore
	settlements SettlementStore
	users       UserStore
	vehicles    VehicleStore
	files       DataFiles
	logger      *zap.Logger
	now         func() time.Time
	runTx       func(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// NewIngestService builds the service.
func NewIngestService(
	db *sql.DB,
	stations StationStore,
	passes PassStore,
	settlements SettlementStore,
	users UserStore,
	vehicles VehicleStore,
	files DataFiles,
	logger *zap.Logger,
) *IngestService {
	s := &IngestService{
		stations:    stations,
		passes:      passes,
		settlements: settlements,
		users:       users,
		vehicles:    vehicles,
		files:       files,
		logger:      logger,
		now:         time.Now,
	}
	s.runTx = func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warn("rollback failed", zap.Error(rbErr))
			}
			return err
		}
		return tx.Commit()
	}
	return s
}

// ResetStations re-reads the station CSV snapshot and mirrors it into the
// catalog: operators and stations upserted, stations absent from the snapshot
// purged. Returns the number of stations processed.
func (s *IngestService) ResetStations(ctx context.Context) (int, error) {
	rows, err := csvdata.ReadFile(s.files.Stations)
	if err != nil {
		return 0, err
	}
	stations := csvdata.Stations(rows)

	processed := 0
	err = s.runTx(ctx, func(tx *sql.Tx) error {
		// First name seen for an operator wins within the snapshot; the
		// stored name is overwritten with it on conflict.
		operatorNames := make(map[string]string)
		var operatorIDs []string
		for _, st := range stations {
			if st.OpID == "" {
				continue
			}
			if _, seen := operatorNames[st.OpID]; !seen {
				operatorNames[st.OpID] = st.Operator
				operatorIDs = append(operatorIDs, st.OpID)
			}
		}
		sort.Strings(operatorIDs)
		for _, id := range operatorIDs {
			if err := s.stations.UpsertOperatorTx(ctx, tx, models.Operator{ID: id, Name: operatorNames[id]}); err != nil {
				return fmt.Errorf("upsert operator %s: %w", id, err)
			}
		}

		keep := make([]string, 0, len(stations))
		for _, st := range stations {
			if st.TollID == "" || st.OpID == "" {
				s.logger.Warn("skipping station row with missing key fields",
					zap.String("tollid", st.TollID), zap.String("opid", st.OpID))
				continue
			}
			err := s.stations.UpsertStationTx(ctx, tx, models.TollStation{
				TollID:     st.TollID,
				OperatorID: st.OpID,
				Name:       st.Name,
				Lat:        csvdata.Float(st.Lat),
				Long:       csvdata.Float(st.Long),
				Price1:     csvdata.Float(st.Price1),
				Price2:     csvdata.Float(st.Price2),
				Price3:     csvdata.Float(st.Price3),
				Price4:     csvdata.Float(st.Price4),
			})
			if err != nil {
				return fmt.Errorf("upsert station %s: %w", st.TollID, err)
			}
			keep = append(keep, st.TollID)
			processed++
		}

		purged, err := s.stations.DeleteStationsNotInTx(ctx, tx, keep)
		if err != nil {
			return fmt.Errorf("purge stale stations: %w", err)
		}
		if purged > 0 {
			s.logger.Info("purged stations missing from snapshot", zap.Int64("count", purged))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("station catalog reloaded", zap.Int("stations", processed))
	return processed, nil
}

// ResetPasses truncates pass events and transceivers together.
func (s *IngestService) ResetPasses(ctx context.Context) error {
	return s.runTx(ctx, func(tx *sql.Tx) error {
		return s.passes.TruncatePassDataTx(ctx, tx)
	})
}

// AddPasses ingests the transceiver and pass CSVs and computes the batch's
// debt settlements, all inside one transaction. Returns the number of newly
// inserted pass events; re-running on unchanged data returns zero.
func (s *IngestService) AddPasses(ctx context.Context) (int, error) {
	passRows, err := csvdata.ReadFile(s.files.Passes)
	if err != nil {
		return 0, err
	}
	tagRows, err := csvdata.ReadFile(s.files.Transceivers)
	if err != nil {
		return 0, err
	}
	stationRows, err := csvdata.ReadFile(s.files.Stations)
	if err != nil {
		return 0, err
	}

	passes := csvdata.Passes(passRows)
	tags := csvdata.Tags(tagRows)
	stations := csvdata.Stations(stationRows)

	newPasses := 0
	err = s.runTx(ctx, func(tx *sql.Tx) error {
		for _, t := range tags {
			if t.ID == "" {
				s.logger.Warn("skipping transceiver row without id")
				continue
			}
			err := s.passes.InsertTagTx(ctx, tx, models.Transceiver{
				ID:         t.ID,
				VehicleID:  t.VehicleID,
				OperatorID: t.OperatorID,
				Balance:    csvdata.Float(t.Balance),
				Active:     t.Active,
			})
			if err != nil {
				return fmt.Errorf("insert transceiver %s: %w", t.ID, err)
			}
		}

		knownTags, err := s.passes.TagIDsTx(ctx, tx)
		if err != nil {
			return fmt.Errorf("load transceiver ids: %w", err)
		}
		knownStations, err := s.stations.StationIDsTx(ctx, tx)
		if err != nil {
			return fmt.Errorf("load station ids: %w", err)
		}

		for _, p := range passes {
			if _, ok := knownTags[p.TagRef]; !ok {
				s.logger.Warn("skipping pass with unknown transceiver",
					zap.String("tagref", p.TagRef), zap.String("tollid", p.TollID))
				continue
			}
			if _, ok := knownStations[p.TollID]; !ok {
				s.logger.Warn("skipping pass with unknown station",
					zap.String("tollid", p.TollID), zap.String("tagref", p.TagRef))
				continue
			}
			ts, err := parsePassTimestamp(p.Timestamp)
			if err != nil {
				s.logger.Warn("skipping pass with unparsable timestamp",
					zap.String("timestamp", p.Timestamp), zap.String("tollid", p.TollID))
				continue
			}
			inserted, err := s.passes.InsertPassTx(ctx, tx, models.Pass{
				Timestamp:     ts,
				TollID:        p.TollID,
				TransceiverID: p.TagRef,
				Charge:        csvdata.Float(p.Charge),
			})
			if err != nil {
				return fmt.Errorf("insert pass %s/%s: %w", p.TollID, p.TagRef, err)
			}
			if inserted {
				newPasses++
			}
		}

		debts, skipped := settlement.Compute(passes, tags, stations)
		if skipped.MissingTag > 0 || skipped.MissingStation > 0 {
			s.logger.Warn("passes excluded from settlement",
				zap.Int("missing_tag", skipped.MissingTag),
				zap.Int("missing_station", skipped.MissingStation))
		}
		batchDate := s.now()
		for _, d := range debts {
			if err := s.settlements.InsertTx(ctx, tx, d.Payer, d.Payee, d.Amount, batchDate); err != nil {
				return fmt.Errorf("insert settlement %s->%s: %w", d.Payer, d.Payee, err)
			}
		}
		s.logger.Info("settlements recorded", zap.Int("pairs", len(debts)))
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("pass batch ingested", zap.Int("new_passes", newPasses))
	return newPasses, nil
}

// Healthcheck reports row counts for the reference and event tables.
func (s *IngestService) Healthcheck(ctx context.Context) (*HealthStats, error) {
	nStations, err := s.stations.Count(ctx)
	if err != nil {
		return nil, err
	}
	nTags, err := s.passes.TagCount(ctx)
	if err != nil {
		return nil, err
	}
	nPasses, err := s.passes.PassCount(ctx)
	if err != nil {
		return nil, err
	}
	return &HealthStats{Stations: nStations, Tags: nTags, Passes: nPasses}, nil
}

// ResetUsers truncates accounts and reseeds them from the fixture CSV.
// Vehicles reference users, so the truncate cascades.
func (s *IngestService) ResetUsers(ctx context.Context) error {
	return s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.users.TruncateTx(ctx, tx); err != nil {
			return err
		}
		return s.seedUsersTx(ctx, tx)
	})
}

// ResetVehicles truncates the vehicle catalog and reseeds it.
func (s *IngestService) ResetVehicles(ctx context.Context) error {
	return s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.vehicles.TruncateTx(ctx, tx); err != nil {
			return err
		}
		return s.seedVehiclesTx(ctx, tx)
	})
}

// SeedReferenceData loads user and vehicle fixtures at startup. Existing rows
// are left untouched; missing fixture files are logged, not fatal.
func (s *IngestService) SeedReferenceData(ctx context.Context) error {
	return s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.seedUsersTx(ctx, tx); err != nil {
			return err
		}
		return s.seedVehiclesTx(ctx, tx)
	})
}

func (s *IngestService) seedUsersTx(ctx context.Context, tx *sql.Tx) error {
	rows, err := csvdata.ReadFile(s.files.Users)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("users fixture not found, skipping seed", zap.String("path", s.files.Users))
			return nil
		}
		return err
	}
	for _, row := range rows {
		user := models.User{
			Username:     row["username"],
			PasswordHash: row["password"],
		}
		if user.Username == "" {
			continue
		}
		// Legacy fixtures overload the type column: reserved words are
		// roles, anything else is the operator's own code.
		if role, err := models.ParseRole(row["type"]); err == nil {
			user.Role = role
			user.OperatorID = row["operatorid"]
		} else {
			user.Role = models.RoleOperator
			user.OperatorID = row["type"]
		}
		if err := s.users.SeedTx(ctx, tx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", user.Username, err)
		}
	}
	return nil
}

func (s *IngestService) seedVehiclesTx(ctx context.Context, tx *sql.Tx) error {
	rows, err := csvdata.ReadFile(s.files.Vehicles)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("vehicles fixture not found, skipping seed", zap.String("path", s.files.Vehicles))
			return nil
		}
		return err
	}
	for _, row := range rows {
		if row["license_plate"] == "" {
			continue
		}
		v := models.Vehicle{
			LicensePlate: row["license_plate"],
			LicenseYear:  int(csvdata.Float(row["license_year"])),
			Type:         row["type"],
			Model:        row["model"],
			UserID:       row["userid"],
		}
		if err := s.vehicles.SeedTx(ctx, tx, v); err != nil {
			return fmt.Errorf("seed vehicle %s: %w", v.LicensePlate, err)
		}
	}
	return nil
}

var passTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006/01/02 15:04",
}

func parsePassTimestamp(s string) (time.Time, error) {
	for _, layout := range passTimestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}
