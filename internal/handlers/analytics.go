// internal/handlers/analytics.go
package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/utils"
)

type reportQuery struct {
	Start  string `form:"start" validate:"omitempty,datetime=2006-01-02"`
	End    string `form:"end" validate:"omitempty,datetime=2006-01-02"`
	Format string `form:"format" validate:"omitempty,oneof=json csv"`
}

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	artisanID, ok := parseOptionalUUID(c, "artisan_id")
	if !ok {
		return
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), artisanID)
	if err != nil {
		respondError(c, err, "artisan")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analytics": dashboard,
	})
}

// GET /analytics/regions
func (h *AnalyticsHandler) GetRegions(c *gin.Context) {
	regions, err := h.analyticsService.Regions(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"regions": regions,
	})
}

// GET /analytics/categories
func (h *AnalyticsHandler) GetCategories(c *gin.Context) {
	categories, err := h.analyticsService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /analytics/timeseries
func (h *AnalyticsHandler) GetTimeSeries(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	series, err := h.analyticsService.TimeSeries(c.Request.Context(), days)
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"timeseries": series,
	})
}

// GET /analytics/top-artisans
func (h *AnalyticsHandler) GetTopArtisans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	artisans, err := h.analyticsService.TopArtisans(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"artisans": artisans,
	})
}

// GET /analytics/report
func (h *AnalyticsHandler) GetReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var query reportQuery
	if !bindQuery(c, &query) {
		return
	}
	start, _ := parseReportDate(query.Start)
	end, _ := parseReportDate(query.End)

	report, err := h.analyticsService.Report(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err, "")
		return
	}

	if query.Format != "csv" {
		utils.SuccessResponse(c, gin.H{
			"report": report,
		})
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyInternalError))
		return
	}
	filename := "budaya-report-" + report.Start.Format("20060102") + "-" + report.End.Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// parseReportDate reads a YYYY-MM-DD day; empty means unset.
func parseReportDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}
