package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/metrics"
)

const (
	lantaburName = "Lantabur"
	taqwaName    = "Taqwa"
)

// ErrInvalidRecord indicates a production record that cannot enter the dashboard.
var ErrInvalidRecord = errors.New("invalid production record")

// Repository stores daily production records.
type Repository interface {
	SaveRecord(ctx context.Context, record models.ProductionRecord) error
	ListRecords(ctx context.Context) ([]models.ProductionRecord, error)
}

// Exporter mirrors stored records to an external sheet.
type Exporter interface {
	ExportProduction(ctx context.Context, record models.ProductionRecord) error
}

// Service exposes production records and the dashboard built from them.
type Service struct {
	repo     Repository
	exporter Exporter
	rates    Rates
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. exporter may be nil.
func NewService(repository Repository, exporter Exporter, rates Rates, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, exporter: exporter, rates: rates, logger: logger, now: time.Now}
}

// AddRecord validates, completes and stores one day of production.
func (s *Service) AddRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error) {
	record = s.normalize(record)
	if err := validate(record); err != nil {
		return models.ProductionRecord{}, err
	}

	if _, ok := parseReportDate(record.Date); !ok {
		s.logger.Warn("production record date unreadable, dashboard will treat it as today",
			zap.String("record_id", record.ID), zap.String("date", record.Date))
	}

	if err := s.repo.SaveRecord(ctx, record); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("save production record: %w", err)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportProduction(ctx, record); err != nil {
			s.logger.Warn("production export failed", zap.String("record_id", record.ID), zap.Error(err))
		}
	}

	s.logger.Info("production record stored",
		zap.String("record_id", record.ID),
		zap.String("date", record.Date),
		zap.Float64("total_kg", record.TotalProduction))
	return record, nil
}

// Records lists every stored record.
func (s *Service) Records(ctx context.Context) ([]models.ProductionRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load production records: %w", err)
	}
	return records, nil
}

// Dashboard aggregates all stored records. ok is false when nothing is stored yet.
func (s *Service) Dashboard(ctx context.Context) (summary Summary, ok bool, err error) {
	records, err := s.Records(ctx)
	if err != nil {
		return Summary{}, false, err
	}

	summary, ok = Aggregate(records, s.rates, s.now())
	metrics.ProductionRecords.Set(float64(len(records)))
	if ok && summary.UndatedRecords > 0 {
		s.logger.Warn("dashboard includes records with unreadable dates", zap.Int("count", summary.UndatedRecords))
	}
	return summary, ok, nil
}

// GenerateDigest renders the dashboard as a short text message.
func (s *Service) GenerateDigest(ctx context.Context) (string, error) {
	summary, ok, err := s.Dashboard(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Production digest: no production data synced yet.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Production digest (report %s)\n", summary.Latest.Date)
	fmt.Fprintf(&b, "Today: %.0f kg (%+.1f%%), revenue %.0f (%+.1f%%)\n",
		summary.Latest.TotalProduction, summary.GrowthWeight, summary.LatestRevenue, summary.GrowthRevenue)
	fmt.Fprintf(&b, "%s: today %.0f, week %.0f, month %.0f kg\n",
		lantaburName, summary.Lantabur.Today, summary.Lantabur.Week, summary.Lantabur.Month)
	fmt.Fprintf(&b, "%s: today %.0f, week %.0f, month %.0f kg\n",
		taqwaName, summary.Taqwa.Today, summary.Taqwa.Week, summary.Taqwa.Month)
	fmt.Fprintf(&b, "%s %d: %.0f kg, year %.0f kg\n", summary.MonthName, summary.RefYear, summary.MonthWeight, summary.YearWeight)
	if s.rates.DailyTargetKg > 0 {
		fmt.Fprintf(&b, "Target: %.0f%% reached, shortfall %.0f kg", summary.TargetProgress, summary.TargetShortfall)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) normalize(record models.ProductionRecord) models.ProductionRecord {
	record.Date = strings.TrimSpace(record.Date)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	if record.Lantabur.Name == "" {
		record.Lantabur.Name = lantaburName
	}
	if record.Taqwa.Name == "" {
		record.Taqwa.Name = taqwaName
	}
	if record.Lantabur.ColorGroups == nil {
		record.Lantabur.ColorGroups = []models.ColorGroupData{}
	}
	if record.Taqwa.ColorGroups == nil {
		record.Taqwa.ColorGroups = []models.ColorGroupData{}
	}
	if record.TotalProduction == 0 {
		record.TotalProduction = record.Lantabur.Total + record.Taqwa.Total
	}
	fillPercentages(&record.Lantabur)
	fillPercentages(&record.Taqwa)
	return record
}

// fillPercentages derives each colour group's share of the industry total when missing.
func fillPercentages(industry *models.IndustryData) {
	if industry.Total <= 0 {
		return
	}
	for i := range industry.ColorGroups {
		group := &industry.ColorGroups[i]
		if group.Percentage == nil {
			pct := group.Weight / industry.Total * 100
			group.Percentage = &pct
		}
	}
}

func validate(record models.ProductionRecord) error {
	if record.Date == "" {
		return fmt.Errorf("%w: date must be provided", ErrInvalidRecord)
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"lantabur.total", record.Lantabur.Total},
		{"lantabur.inhouse", record.Lantabur.Inhouse},
		{"lantabur.subContract", record.Lantabur.SubContract},
		{"taqwa.total", record.Taqwa.Total},
		{"taqwa.inhouse", record.Taqwa.Inhouse},
		{"taqwa.subContract", record.Taqwa.SubContract},
		{"totalProduction", record.TotalProduction},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidRecord, f.name)
		}
	}
	for _, industry := range []models.IndustryData{record.Lantabur, record.Taqwa} {
		for _, group := range industry.ColorGroups {
			if math.IsNaN(group.Weight) || math.IsInf(group.Weight, 0) || group.Weight < 0 {
				return fmt.Errorf("%w: colour group %q weight must be a non-negative number", ErrInvalidRecord, group.GroupName)
			}
		}
	}
	return nil
}
