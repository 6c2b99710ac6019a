package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
)

type analyticsRepository struct{ s *state }

func (r *analyticsRepository) PlatformStats(_ context.Context) (models.PlatformStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stats models.PlatformStats
	for _, a := range r.s.artisans {
		stats.TotalArtisans++
		if a.Verified {
			stats.VerifiedArtisans++
		}
	}
	for _, p := range r.s.products {
		stats.TotalProducts++
		if p.Status == models.ProductStatusListed {
			stats.ListedProducts++
		}
	}
	for _, t := range r.s.transactions {
		stats.TotalTransactions++
		stats.TotalVolume += t.Amount
		stats.TotalRoyalties += t.RoyaltyPaid
	}
	return stats, nil
}

func (r *analyticsRepository) TransactionSummary(_ context.Context, artisanID *uuid.UUID) (models.TransactionSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var summary models.TransactionSummary
	for _, t := range r.s.transactions {
		if artisanID != nil {
			p, ok := r.s.products[t.ProductID]
			if !ok || p.ArtisanID != *artisanID {
				continue
			}
		}
		summary.Count++
		summary.TotalSales += t.Amount
		summary.TotalRoyalties += t.RoyaltyPaid
	}
	if summary.Count > 0 {
		summary.AverageSale = summary.TotalSales / float64(summary.Count)
		summary.AverageRoyalty = summary.TotalRoyalties / float64(summary.Count)
	}
	return summary, nil
}

func (r *analyticsRepository) RegionBreakdown(_ context.Context) ([]models.Breakdown, error) {
	return r.breakdown(func(p *models.Product) string { return p.Region }), nil
}

func (r *analyticsRepository) CategoryBreakdown(_ context.Context) ([]models.Breakdown, error) {
	return r.breakdown(func(p *models.Product) string { return p.Category }), nil
}

func (r *analyticsRepository) breakdown(key func(*models.Product) string) []models.Breakdown {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	volume := make(map[uuid.UUID]float64)
	for _, t := range r.s.transactions {
		volume[t.ProductID] += t.Amount
	}

	buckets := make(map[string]*models.Breakdown)
	artisans := make(map[string]map[uuid.UUID]struct{})
	for _, p := range r.s.products {
		k := key(p)
		b, ok := buckets[k]
		if !ok {
			b = &models.Breakdown{Name: k}
			buckets[k] = b
			artisans[k] = make(map[uuid.UUID]struct{})
		}
		b.ProductCount++
		b.SalesVolume += volume[p.ID]
		artisans[k][p.ArtisanID] = struct{}{}
	}

	out := make([]models.Breakdown, 0, len(buckets))
	for k, b := range buckets {
		b.ArtisanCount = int64(len(artisans[k]))
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SalesVolume != out[j].SalesVolume {
			return out[i].SalesVolume > out[j].SalesVolume
		}
		if out[i].ProductCount != out[j].ProductCount {
			return out[i].ProductCount > out[j].ProductCount
		}
		return out[i].Name < out[j].Name
	})
	return repository.Percentages(out)
}

func (r *analyticsRepository) DailySeries(_ context.Context, since time.Time) ([]models.DailyPoint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	days := make(map[string]*models.DailyPoint)
	for _, t := range r.s.transactions {
		if t.Timestamp.Before(since) {
			continue
		}
		date := t.Timestamp.UTC().Format("2006-01-02")
		point, ok := days[date]
		if !ok {
			point = &models.DailyPoint{Date: date}
			days[date] = point
		}
		point.Sales++
		point.Volume += t.Amount
		point.Royalties += t.RoyaltyPaid
	}

	out := make([]models.DailyPoint, 0, len(days))
	for _, p := range days {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *analyticsRepository) PeriodSales(_ context.Context, start, end time.Time) (models.PeriodSales, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var sales models.PeriodSales
	sellers := make(map[uuid.UUID]struct{})
	for _, t := range r.s.transactions {
		if t.Timestamp.Before(start) || !t.Timestamp.Before(end) {
			continue
		}
		sales.Transactions++
		sales.Volume += t.Amount
		sales.Royalties += t.RoyaltyPaid
		sales.ArtisanIncome += t.ArtisanAmount
		sales.PlatformRevenue += t.PlatformAmount
		sales.DAOTreasury += t.DAOAmount
		if p, ok := r.s.products[t.ProductID]; ok {
			sellers[p.ArtisanID] = struct{}{}
		}
	}
	sales.SellingArtisans = int64(len(sellers))
	return sales, nil
}

func (r *analyticsRepository) TopArtisans(_ context.Context, limit int) ([]models.ArtisanEarnings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make(map[uuid.UUID]*models.ArtisanEarnings)
	for _, t := range r.s.transactions {
		p, ok := r.s.products[t.ProductID]
		if !ok {
			continue
		}
		a, ok := r.s.artisans[p.ArtisanID]
		if !ok {
			continue
		}
		row, ok := rows[a.ID]
		if !ok {
			row = &models.ArtisanEarnings{ArtisanID: a.ID, Name: a.Name, Region: a.Region}
			rows[a.ID] = row
		}
		row.Sales++
		row.Volume += t.Amount
		row.TotalEarnings += t.ArtisanAmount
	}

	out := make([]models.ArtisanEarnings, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalEarnings != out[j].TotalEarnings {
			return out[i].TotalEarnings > out[j].TotalEarnings
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *analyticsRepository) RoyaltySummary(_ context.Context, artisanID uuid.UUID, topN int) (models.RoyaltySummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summary := models.RoyaltySummary{ArtisanID: artisanID, TopProducts: []models.ProductEarnings{}}
	perProduct := make(map[uuid.UUID]*models.ProductEarnings)

	for _, t := range r.s.transactions {
		p, ok := r.s.products[t.ProductID]
		if !ok || p.ArtisanID != artisanID {
			continue
		}
		summary.SaleCount++
		summary.TotalEarnings += t.ArtisanAmount
		if summary.LastPaymentAt == nil || t.Timestamp.After(*summary.LastPaymentAt) {
			ts := t.Timestamp
			summary.LastPaymentAt = &ts
		}

		pe, ok := perProduct[p.ID]
		if !ok {
			pe = &models.ProductEarnings{ProductID: p.ID, Title: p.Title}
			perProduct[p.ID] = pe
		}
		pe.Sales++
		pe.Earnings += t.ArtisanAmount
	}

	if summary.SaleCount > 0 {
		summary.AverageRoyalty = summary.TotalEarnings / float64(summary.SaleCount)
	}
	for _, pe := range perProduct {
		summary.TopProducts = append(summary.TopProducts, *pe)
	}
	top := summary.TopProducts
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Earnings != top[j].Earnings {
			return top[i].Earnings > top[j].Earnings
		}
		return top[i].Title < top[j].Title
	})
	if topN > 0 && len(summary.TopProducts) > topN {
		summary.TopProducts = summary.TopProducts[:topN]
	}
	return summary, nil
}

type auditRepository struct{ s *state }

func (r *auditRepository) Create(_ context.Context, entry *models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.stamp(&entry.BaseModel)
	stored := *entry
	r.s.audit = append(r.s.audit, &stored)
	return nil
}
