package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/repository/memory"
)

// clockedFixture shares one mutable clock between the store and the
// analytics service.
func clockedFixture(t *testing.T, start time.Time) (*fixture, *time.Time) {
	t.Helper()
	f := newFixture(t)
	clock := start
	f.store = memory.NewStoreWithClock(func() time.Time { return clock })
	return f, &clock
}

func (f *fixture) sell(t *testing.T, product *models.Product, seller string) {
	t.Helper()
	buyer := buyerSession()
	_, err := NewTransactionService(f.store, f.chain, f.cfg, nil).RecordTransaction(f.ctx, buyer, &RecordTransactionRequest{
		ProductID:    product.ID,
		BuyerWallet:  buyer.Wallet,
		SellerWallet: seller,
		Amount:       product.Price,
		TxSignature:  newSignature(t),
	})
	require.NoError(t, err)
}

func TestTimeSeriesFillsEmptyDays(t *testing.T) {
	start := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	f, clock := clockedFixture(t, start)
	artisan, session := f.artisan(t, true)

	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)
	*clock = start.AddDate(0, 0, 2)
	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)
	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)

	svc := NewAnalyticsService(f.store, f.cfg.Royalty)
	svc.now = func() time.Time { return *clock }

	series, err := svc.TimeSeries(f.ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Days)
	require.Len(t, series.Points, 3)

	assert.Equal(t, "2026-05-10", series.Points[0].Date)
	assert.EqualValues(t, 1, series.Points[0].Sales)
	assert.Equal(t, "2026-05-11", series.Points[1].Date)
	assert.Zero(t, series.Points[1].Sales)
	assert.Zero(t, series.Points[1].Volume)
	assert.Equal(t, "2026-05-12", series.Points[2].Date)
	assert.EqualValues(t, 2, series.Points[2].Sales)
	assert.InDelta(t, 5.0, series.Points[2].Volume, 1e-9)
	assert.InDelta(t, 0.5, series.Points[2].Royalties, 1e-9)
}

func TestTimeSeriesWindowBounds(t *testing.T) {
	svc := NewAnalyticsService(memory.NewStore(), testConfig().Royalty)

	series, err := svc.TimeSeries(newFixture(t).ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, series.Days)
	assert.Len(t, series.Points, 30)

	series, err = svc.TimeSeries(newFixture(t).ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 365, series.Days)
	assert.Len(t, series.Points, 365)
}

func TestDistributions(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)

	sold := f.listedProduct(t, artisan, session)
	f.sell(t, sold, artisan.WalletAddress)
	f.draftProduct(t, artisan, session)
	f.draftProduct(t, artisan, session)

	svc := NewAnalyticsService(f.store, f.cfg.Royalty)

	regions, err := svc.Regions(f.ctx)
	require.NoError(t, err)
	require.Len(t, regions.Buckets, 2)
	require.NotNil(t, regions.Top)
	// sales volume outranks product count
	assert.Equal(t, "Nusa Tenggara Timur", regions.Top.Name)

	var total float64
	for _, b := range regions.Buckets {
		total += b.Percentage
	}
	assert.InDelta(t, 100, total, 0.1)

	categories, err := svc.Categories(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tenun", categories.Top.Name)
}

func TestDistributionsEmpty(t *testing.T) {
	regions, err := NewAnalyticsService(memory.NewStore(), testConfig().Royalty).Regions(newFixture(t).ctx)
	require.NoError(t, err)
	assert.Empty(t, regions.Buckets)
	assert.NotNil(t, regions.Buckets)
	assert.Nil(t, regions.Top)
}

func TestDashboardForArtisan(t *testing.T) {
	f := newFixture(t)
	artisan, session := f.artisan(t, true)
	other, otherSession := f.artisan(t, true)

	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)
	f.sell(t, f.listedProduct(t, other, otherSession), other.WalletAddress)

	svc := NewAnalyticsService(f.store, f.cfg.Royalty)

	dashboard, err := svc.Dashboard(f.ctx, &artisan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dashboard.Platform.TotalTransactions)
	assert.EqualValues(t, 1, dashboard.Transactions.Count)
	assert.InDelta(t, 2.5, dashboard.Transactions.AverageSale, 1e-9)

	missing := uuid.New()
	_, err = svc.Dashboard(f.ctx, &missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTopArtisans(t *testing.T) {
	f := newFixture(t)
	first, firstSession := f.artisan(t, true)
	second, secondSession := f.artisan(t, true)

	f.sell(t, f.listedProduct(t, first, firstSession), first.WalletAddress)
	f.sell(t, f.listedProduct(t, second, secondSession), second.WalletAddress)
	f.sell(t, f.listedProduct(t, second, secondSession), second.WalletAddress)

	top, err := NewAnalyticsService(f.store, f.cfg.Royalty).TopArtisans(f.ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, second.ID, top[0].ArtisanID)
	assert.EqualValues(t, 2, top[0].Sales)
	assert.InDelta(t, 0.35, top[0].TotalEarnings, 1e-9)
}

func TestAdminDashboardStats(t *testing.T) {
	f := newFixture(t)
	verified, session := f.artisan(t, true)
	f.artisan(t, false)
	f.sell(t, f.listedProduct(t, verified, session), verified.WalletAddress)

	stats, err := NewAdminService(f.store).GetDashboardStats(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalArtisans)
	assert.EqualValues(t, 1, stats.PendingArtisans)
	assert.InDelta(t, 50, stats.VerificationRate, 1e-9)
	assert.InDelta(t, 2.5, stats.AverageSale, 1e-9)
	assert.Zero(t, stats.ActiveProposals)
}

func TestAdminVerifyArtisan(t *testing.T) {
	f := newFixture(t)
	pending, _ := f.artisan(t, false)
	svc := NewAdminService(f.store)

	list, total, err := svc.PendingArtisans(f.ctx, paramsFor(1, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, pending.ID, list[0].ID)

	artisan, err := svc.VerifyArtisan(f.ctx, pending.ID, "admin-wallet", true)
	require.NoError(t, err)
	assert.True(t, artisan.Verified)

	_, total, err = svc.PendingArtisans(f.ctx, paramsFor(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = svc.VerifyArtisan(f.ctx, uuid.New(), "admin-wallet", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGovernmentReport(t *testing.T) {
	start := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	f, clock := clockedFixture(t, start)
	artisan, session := f.artisan(t, true)
	f.artisan(t, false)

	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)
	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)
	*clock = start.AddDate(0, 0, 3)
	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)

	svc := NewAnalyticsService(f.store, f.cfg.Royalty)
	svc.now = func() time.Time { return *clock }

	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	report, err := svc.Report(f.ctx, day, day)
	require.NoError(t, err)

	assert.Equal(t, "2026-05-10 to 2026-05-10", report.Period)
	assert.EqualValues(t, 3, report.Summary.TotalTransactions)
	assert.EqualValues(t, 2, report.Sales.Transactions)
	assert.EqualValues(t, 1, report.Sales.SellingArtisans)
	assert.InDelta(t, 5.0, report.Sales.Volume, 1e-9)
	assert.InDelta(t, 0.35, report.EconomicImpact.ArtisanIncome, 1e-9)
	assert.InDelta(t, 0.1, report.EconomicImpact.PlatformRevenue, 1e-9)
	assert.InDelta(t, 0.05, report.EconomicImpact.DAOTreasury, 1e-9)
	// one of the two artisans is verified
	assert.InDelta(t, 0.35, report.EconomicImpact.AverageArtisanEarning, 1e-9)
	assert.Equal(t, 200, report.EconomicImpact.Split.PlatformBps)
	require.NotEmpty(t, report.Regions)
	assert.Equal(t, "Nusa Tenggara Timur", report.Regions[0].Name)
	require.Len(t, report.TopArtisans, 1)

	trailing, err := svc.Report(f.ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, trailing.Sales.Transactions)
	assert.Equal(t, "2026-04-14 to 2026-05-13", trailing.Period)
}

func TestGovernmentReportPeriodChecks(t *testing.T) {
	svc := NewAnalyticsService(memory.NewStore(), testConfig().Royalty)
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Report(newFixture(t).ctx, day, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = svc.Report(newFixture(t).ctx, day, day.AddDate(1, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	empty, err := svc.Report(newFixture(t).ctx, day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Zero(t, empty.Sales.Transactions)
	assert.Zero(t, empty.EconomicImpact.AverageArtisanEarning)
	assert.Empty(t, empty.TopArtisans)
}

func TestGovernmentReportCSV(t *testing.T) {
	f, _ := clockedFixture(t, time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC))
	artisan, session := f.artisan(t, true)
	f.sell(t, f.listedProduct(t, artisan, session), artisan.WalletAddress)

	svc := NewAnalyticsService(f.store, f.cfg.Royalty)
	svc.now = func() time.Time { return time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC) }

	report, err := svc.Report(f.ctx, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	rows := make(map[string][]string)
	for _, r := range records {
		rows[r[0]] = r
	}
	assert.Contains(t, rows, "BUDAYA CHAIN - Government Report")
	assert.Equal(t, []string{"Period", report.Period}, rows["Period"])
	assert.Equal(t, []string{"Total Transactions", "1"}, rows["Total Transactions"])
	assert.Equal(t, "Products", rows["Region"][1])
	assert.Equal(t, "100.00%", rows["Nusa Tenggara Timur"][3])

	income, err := strconv.ParseFloat(rows["Artisan Income"][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 0.175, income, 1e-9)
}
