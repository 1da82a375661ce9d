package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/bet-tracker/internal/domain/bet"
	"github.com/riskibarqy/bet-tracker/internal/ingest"
)

const (
	defaultImportWorkers = 4
	importSourceTag      = "csv"
)

// ImportService turns uploaded CSV rows into canonical bets. The header row
// supplies the column names; they feed straight into the normalizer's alias
// probing, so any column naming the normalizer understands works here too.
type ImportService struct {
	betRepo     bet.Repository
	invalidator StatsInvalidator
	maxWorkers  int
	logger      *slog.Logger
}

func NewImportService(
	betRepo bet.Repository,
	invalidator StatsInvalidator,
	maxWorkers int,
	logger *slog.Logger,
) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultImportWorkers
	}

	return &ImportService{
		betRepo:     betRepo,
		invalidator: invalidator,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV reads the whole CSV stream, normalizes every data row and
// upserts the resulting bets for userID. Rows that cannot be read as CSV
// are counted as skipped; normalization itself never rejects a row.
func (s *ImportService) ImportCSV(ctx context.Context, reader io.Reader, userID string) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportCSV")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ImportResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	header, records, skipped, err := readCSVRecords(reader)
	if err != nil {
		return ImportResult{}, err
	}
	if len(header) == 0 {
		return ImportResult{Skipped: skipped}, nil
	}

	bets, err := s.normalizeRecords(records)
	if err != nil {
		return ImportResult{}, err
	}

	for i := range bets {
		if bets[i].UserID == "" {
			bets[i].UserID = userID
		}
		if bets[i].Source == nil {
			source := importSourceTag
			bets[i].Source = &source
		}
	}

	if len(bets) > 0 {
		if err := s.betRepo.UpsertMany(ctx, bets); err != nil {
			return ImportResult{}, fmt.Errorf("upsert imported bets: %w", err)
		}
		if s.invalidator != nil {
			s.invalidator.DeletePrefix(ctx, statsCachePrefix(userID))
		}
	}

	s.logger.InfoContext(ctx, "csv import finished",
		"user_id", userID,
		"imported", len(bets),
		"skipped", skipped,
	)

	return ImportResult{Imported: len(bets), Skipped: skipped}, nil
}

func readCSVRecords(reader io.Reader) (header []string, records []ingest.Record, skipped int, err error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: read csv: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, nil, 0, nil
	}

	header = make([]string, 0, len(rows[0]))
	for _, column := range rows[0] {
		header = append(header, strings.TrimSpace(column))
	}

	records = make([]ingest.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(ingest.Record, len(header))
		empty := true
		for i, column := range header {
			if column == "" || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			record[column] = value
			empty = false
		}
		if empty {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return header, records, skipped, nil
}

// normalizeRecords fans row normalization out over a worker pool. Each task
// writes to its own index, so no locking is needed around the result slice.
func (s *ImportService) normalizeRecords(records []ingest.Record) ([]bet.Bet, error) {
	out := make([]bet.Bet, len(records))
	if len(records) == 0 {
		return out, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(records) {
		workerCount = len(records)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create import worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range records {
		i := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[i] = ingest.NormalizeBet(records[i])
		}); err != nil {
			workers.Done()
			pool.Release()
			return nil, fmt.Errorf("submit import task: %w", err)
		}
	}
	workers.Wait()

	return out, nil
}
