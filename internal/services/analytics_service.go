// internal/services/analytics_service.go
package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/royalty"
)

const (
	defaultSeriesDays = 30
	maxSeriesDays     = 365
	defaultTopLimit   = 10
	maxTopLimit       = 100
	reportDateLayout  = "2006-01-02"
	maxReportDays     = 366
)

type AnalyticsService struct {
	store   *repository.Store
	royalty config.RoyaltyConfig
	now     func() time.Time
}

type DashboardAnalytics struct {
	Platform     models.PlatformStats      `json:"platform"`
	Transactions models.TransactionSummary `json:"transactions"`
	ArtisanID    *uuid.UUID                `json:"artisan_id,omitempty"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

type Distribution struct {
	Buckets []models.Breakdown `json:"buckets"`
	Top     *models.Breakdown  `json:"top"`
}

type TimeSeries struct {
	Days   int                 `json:"days"`
	Since  time.Time           `json:"since"`
	Points []models.DailyPoint `json:"points"`
}

// EconomicImpact splits the royalties of a reporting period by recipient.
type EconomicImpact struct {
	ArtisanIncome         float64       `json:"artisan_income"`
	PlatformRevenue       float64       `json:"platform_revenue"`
	DAOTreasury           float64       `json:"dao_treasury"`
	AverageArtisanEarning float64       `json:"average_artisan_earning"`
	Split                 royalty.Split `json:"split"`
}

// GovernmentReport is the oversight report for a date range. Start and End
// are whole UTC days, both inclusive.
type GovernmentReport struct {
	GeneratedAt    time.Time                `json:"generated_at"`
	Start          time.Time                `json:"start"`
	End            time.Time                `json:"end"`
	Period         string                   `json:"period"`
	Summary        models.PlatformStats     `json:"summary"`
	Sales          models.PeriodSales       `json:"sales"`
	Regions        []models.Breakdown       `json:"regions"`
	Categories     []models.Breakdown       `json:"categories"`
	TopArtisans    []models.ArtisanEarnings `json:"top_artisans"`
	EconomicImpact EconomicImpact           `json:"economic_impact"`
}

func NewAnalyticsService(store *repository.Store, royaltyConfig config.RoyaltyConfig) *AnalyticsService {
	return &AnalyticsService{
		store:   store,
		royalty: royaltyConfig,
		now:     time.Now,
	}
}

func (s *AnalyticsService) Dashboard(ctx context.Context, artisanID *uuid.UUID) (*DashboardAnalytics, error) {
	if artisanID != nil {
		if _, err := s.store.Artisans.GetByID(ctx, *artisanID, false); err != nil {
			return nil, fmt.Errorf("failed to get artisan: %w", err)
		}
	}

	platform, err := s.store.Analytics.PlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	summary, err := s.store.Analytics.TransactionSummary(ctx, artisanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction summary: %w", err)
	}

	return &DashboardAnalytics{
		Platform:     platform,
		Transactions: summary,
		ArtisanID:    artisanID,
		GeneratedAt:  s.now().UTC(),
	}, nil
}

func (s *AnalyticsService) Regions(ctx context.Context) (*Distribution, error) {
	buckets, err := s.store.Analytics.RegionBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get regional distribution: %w", err)
	}
	return distribution(buckets), nil
}

func (s *AnalyticsService) Categories(ctx context.Context) (*Distribution, error) {
	buckets, err := s.store.Analytics.CategoryBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get category distribution: %w", err)
	}
	return distribution(buckets), nil
}

// distribution picks the bucket with the largest sales volume, breaking
// ties on product count.
func distribution(buckets []models.Breakdown) *Distribution {
	buckets = repository.Percentages(buckets)
	if buckets == nil {
		buckets = []models.Breakdown{}
	}

	var top *models.Breakdown
	for i := range buckets {
		b := &buckets[i]
		if top == nil ||
			b.SalesVolume > top.SalesVolume ||
			(b.SalesVolume == top.SalesVolume && b.ProductCount > top.ProductCount) {
			top = b
		}
	}
	return &Distribution{Buckets: buckets, Top: top}
}

// TimeSeries returns one point per day for the trailing window, including
// days without sales.
func (s *AnalyticsService) TimeSeries(ctx context.Context, days int) (*TimeSeries, error) {
	if days <= 0 {
		days = defaultSeriesDays
	}
	if days > maxSeriesDays {
		days = maxSeriesDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	points, err := s.store.Analytics.DailySeries(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily series: %w", err)
	}

	byDate := make(map[string]models.DailyPoint, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	series := make([]models.DailyPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		point, ok := byDate[key]
		if !ok {
			point = models.DailyPoint{Date: key}
		}
		series = append(series, point)
	}

	return &TimeSeries{Days: days, Since: since, Points: series}, nil
}

func (s *AnalyticsService) TopArtisans(ctx context.Context, limit int) ([]models.ArtisanEarnings, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	top, err := s.store.Analytics.TopArtisans(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top artisans: %w", err)
	}
	if top == nil {
		top = []models.ArtisanEarnings{}
	}
	return top, nil
}

// Report builds the government oversight report for the days start
// through end. Zero values default to the trailing 30 days.
func (s *AnalyticsService) Report(ctx context.Context, start, end time.Time) (*GovernmentReport, error) {
	now := s.now().UTC()
	if end.IsZero() {
		end = now
	}
	end = end.UTC().Truncate(24 * time.Hour)
	if start.IsZero() {
		start = end.AddDate(0, 0, -(defaultSeriesDays - 1))
	}
	start = start.UTC().Truncate(24 * time.Hour)

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidPeriod,
			end.Format(reportDateLayout), start.Format(reportDateLayout))
	}
	if end.Sub(start) >= maxReportDays*24*time.Hour {
		return nil, fmt.Errorf("%w: period is longer than %d days", ErrInvalidPeriod, maxReportDays)
	}

	stats, err := s.store.Analytics.PlatformStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get platform stats: %w", err)
	}
	sales, err := s.store.Analytics.PeriodSales(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to get period sales: %w", err)
	}
	regions, err := s.Regions(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.TopArtisans(ctx, defaultTopLimit)
	if err != nil {
		return nil, err
	}

	impact := EconomicImpact{
		ArtisanIncome:   sales.ArtisanIncome,
		PlatformRevenue: sales.PlatformRevenue,
		DAOTreasury:     sales.DAOTreasury,
		Split:           s.royalty.DefaultSplit(),
	}
	if stats.VerifiedArtisans > 0 {
		impact.AverageArtisanEarning = sales.ArtisanIncome / float64(stats.VerifiedArtisans)
	}

	return &GovernmentReport{
		GeneratedAt:    now,
		Start:          start,
		End:            end,
		Period:         start.Format(reportDateLayout) + " to " + end.Format(reportDateLayout),
		Summary:        stats,
		Sales:          sales,
		Regions:        regions.Buckets,
		Categories:     categories.Buckets,
		TopArtisans:    top,
		EconomicImpact: impact,
	}, nil
}

// WriteCSV renders the report as sectioned CSV, one table per section.
func (r *GovernmentReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	sol := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	count := func(v int64) string { return strconv.FormatInt(v, 10) }
	percent := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" }

	rows := [][]string{
		{"BUDAYA CHAIN - Government Report"},
		{"Report Date", r.GeneratedAt.Format(time.RFC3339)},
		{"Period", r.Period},
		{},
		{"SUMMARY"},
		{"Metric", "Value"},
		{"Total Artisans", count(r.Summary.TotalArtisans)},
		{"Verified Artisans", count(r.Summary.VerifiedArtisans)},
		{"Total Products", count(r.Summary.TotalProducts)},
		{"Total Transactions", count(r.Summary.TotalTransactions)},
		{"Total Volume (SOL)", sol(r.Summary.TotalVolume)},
		{"Total Royalties (SOL)", sol(r.Summary.TotalRoyalties)},
		{"Period Transactions", count(r.Sales.Transactions)},
		{"Period Volume (SOL)", sol(r.Sales.Volume)},
		{"Period Royalties (SOL)", sol(r.Sales.Royalties)},
		{},
	}

	for _, section := range []struct {
		title, label string
		buckets      []models.Breakdown
	}{
		{"REGIONAL BREAKDOWN", "Region", r.Regions},
		{"CATEGORY BREAKDOWN", "Category", r.Categories},
	} {
		rows = append(rows, []string{section.title}, []string{section.label, "Products", "Sales Volume", "Percentage"})
		for _, b := range section.buckets {
			rows = append(rows, []string{b.Name, count(b.ProductCount), sol(b.SalesVolume), percent(b.Percentage)})
		}
		rows = append(rows, []string{})
	}

	rows = append(rows, []string{"TOP ARTISANS"}, []string{"Artisan", "Region", "Sales", "Earnings (SOL)"})
	for _, a := range r.TopArtisans {
		rows = append(rows, []string{a.Name, a.Region, count(a.Sales), sol(a.TotalEarnings)})
	}
	rows = append(rows, []string{},
		[]string{"ECONOMIC IMPACT"},
		[]string{"Metric", "Value (SOL)"},
		[]string{"Artisan Income", sol(r.EconomicImpact.ArtisanIncome)},
		[]string{"Platform Revenue", sol(r.EconomicImpact.PlatformRevenue)},
		[]string{"DAO Treasury", sol(r.EconomicImpact.DAOTreasury)},
		[]string{"Average Artisan Earning", sol(r.EconomicImpact.AverageArtisanEarning)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
