package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
)

// Rates are the business assumptions behind revenue and environmental
// estimates. They come from configuration and carry no more precision than given.
type Rates struct {
	LantaburPerKg float64
	TaqwaPerKg    float64
	WaterPerKg    float64
	CO2PerKg      float64
	DailyTargetKg float64
}

// IndustryStats are one industry's weight totals relative to the latest report.
type IndustryStats struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

// Summary is the production dashboard computed from a set of daily records.
type Summary struct {
	Latest          models.ProductionRecord  `json:"latest"`
	Previous        *models.ProductionRecord `json:"previous,omitempty"`
	ReferenceDate   time.Time                `json:"referenceDate"`
	WeekStart       time.Time                `json:"weekStart"`
	MonthName       string                   `json:"monthName"`
	RefYear         int                      `json:"refYear"`
	RecordCount     int                      `json:"recordCount"`
	UndatedRecords  int                      `json:"undatedRecords"`
	LatestRevenue   float64                  `json:"latestRevenue"`
	PreviousRevenue float64                  `json:"previousRevenue"`
	TotalWeight     float64                  `json:"totalWeight"`
	WeekWeight      float64                  `json:"weekWeight"`
	MonthWeight     float64                  `json:"monthWeight"`
	YearWeight      float64                  `json:"yearWeight"`
	GrowthWeight    float64                  `json:"growthWeight"`
	GrowthRevenue   float64                  `json:"growthRevenue"`
	Lantabur        IndustryStats            `json:"lantabur"`
	Taqwa           IndustryStats            `json:"taqwa"`
	LantaburShare   float64                  `json:"lantaburShare"`
	TaqwaShare      float64                  `json:"taqwaShare"`
	TotalWater      float64                  `json:"totalWater"`
	TotalCO2        float64                  `json:"totalCO2"`
	TargetProgress  float64                  `json:"targetProgress"`
	TargetShortfall float64                  `json:"targetShortfall"`
}

// calendar fixes the reporting week to start on Sunday.
var calendar = &now.Config{WeekStartDay: time.Sunday}

type datedRecord struct {
	record models.ProductionRecord
	date   time.Time
}

// Aggregate rolls daily records up against the most recent one. The boolean
// is false when there are no records; callers must treat that as "no data".
// Dates that cannot be read count as asOf.
func Aggregate(records []models.ProductionRecord, rates Rates, asOf time.Time) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}

	dated := make([]datedRecord, len(records))
	undated := 0
	for i, r := range records {
		d, ok := parseReportDate(r.Date)
		if !ok {
			d = asOf.UTC()
			undated++
		}
		dated[i] = datedRecord{record: r, date: d}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.After(dated[j].date) })

	latest := dated[0]
	refDate := latest.date
	ref := calendar.With(refDate)
	weekStart := ref.BeginningOfWeek()
	monthStart, monthEnd := ref.BeginningOfMonth(), ref.EndOfMonth()
	yearStart, yearEnd := ref.BeginningOfYear(), ref.EndOfYear()

	summary := Summary{
		Latest:         latest.record,
		ReferenceDate:  refDate,
		WeekStart:      weekStart,
		MonthName:      refDate.Month().String(),
		RefYear:        refDate.Year(),
		RecordCount:    len(records),
		UndatedRecords: undated,
		Lantabur:       IndustryStats{Today: num(latest.record.Lantabur.Total)},
		Taqwa:          IndustryStats{Today: num(latest.record.Taqwa.Total)},
	}

	for _, dr := range dated {
		d := dr.date
		weight := num(dr.record.TotalProduction)
		lantabur := num(dr.record.Lantabur.Total)
		taqwa := num(dr.record.Taqwa.Total)

		summary.TotalWeight += weight
		summary.TotalWater += weight * rates.WaterPerKg
		summary.TotalCO2 += weight * rates.CO2PerKg

		if !d.Before(weekStart) && !d.After(refDate) {
			summary.Lantabur.Week += lantabur
			summary.Taqwa.Week += taqwa
			summary.WeekWeight += weight
		}
		if !d.Before(yearStart) && !d.After(yearEnd) {
			summary.Lantabur.Year += lantabur
			summary.Taqwa.Year += taqwa
			summary.YearWeight += weight
		}
		if !d.Before(monthStart) && !d.After(monthEnd) {
			summary.Lantabur.Month += lantabur
			summary.Taqwa.Month += taqwa
			summary.MonthWeight += weight
		}
	}

	summary.LatestRevenue = revenue(latest.record, rates)
	if len(dated) > 1 {
		prev := dated[1].record
		summary.Previous = &prev
		summary.PreviousRevenue = revenue(prev, rates)
		summary.GrowthWeight = growth(num(latest.record.TotalProduction), num(prev.TotalProduction))
		summary.GrowthRevenue = growth(summary.LatestRevenue, summary.PreviousRevenue)
	}

	if total := num(latest.record.TotalProduction); total > 0 {
		summary.LantaburShare = num(latest.record.Lantabur.Total) / total * 100
		summary.TaqwaShare = num(latest.record.Taqwa.Total) / total * 100
	}

	if rates.DailyTargetKg > 0 {
		today := num(latest.record.TotalProduction)
		summary.TargetProgress = math.Min(100, today/rates.DailyTargetKg*100)
		summary.TargetShortfall = math.Max(0, rates.DailyTargetKg-today)
	}

	return summary, true
}

func revenue(r models.ProductionRecord, rates Rates) float64 {
	return num(r.Lantabur.Total)*rates.LantaburPerKg + num(r.Taqwa.Total)*rates.TaqwaPerKg
}

// growth is the period-over-period change in percent; a previous value below 1 divides by 1.
func growth(latest, previous float64) float64 {
	return (latest - previous) / math.Max(1, previous) * 100
}

func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
