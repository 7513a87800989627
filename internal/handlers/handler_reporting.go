package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
)

// reportingHandler handles HTTP requests for the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// parseDateQuery reads a YYYY-MM-DD query parameter, falling back to def when
// absent. The second return value is false when the parameter was malformed.
func parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Description Lists every account's balance on its normal side; a non-zero difference is flagged as a warning
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse "The trial balance"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Balance sheet report
// @Description Groups asset, liability and equity balances as of a date; an accounting-equation gap is flagged as a warning
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse "The balance sheet"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getIncomeStatement godoc
// @Summary Income statement report
// @Description Sums income and expense activity over a period
// @Tags reports
// @Produce  json
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse "The income statement"
// @Failure 400 {object} map[string]string "Invalid period"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, ok := parseDateQuery(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getGeneralLedger godoc
// @Summary General ledger report
// @Description Chronological posted lines with running balances for one account or the whole ledger
// @Tags reports
// @Produce  json
// @Param   accountID query string false "Restrict to one account"
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.GeneralLedgerResponse "The general ledger"
// @Failure 400 {object} map[string]string "Invalid period"
// @Router /reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, ok := parseDateQuery(c, "from", time.Time{})
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.GeneralLedger(c.Request.Context(), c.Query("accountID"), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build general ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(report))
}

// registerReportingRoutes registers financial report routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingService) {
	handler := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", handler.getTrialBalance)
		reports.GET("/balance-sheet", handler.getBalanceSheet)
		reports.GET("/income-statement", handler.getIncomeStatement)
		reports.GET("/general-ledger", handler.getGeneralLedger)
	}
}
