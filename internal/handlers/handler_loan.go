package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
)

// loanHandler handles HTTP requests for the amortization calculator.
type loanHandler struct {
	loanService portssvc.LoanService
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(loanService portssvc.LoanService) *loanHandler {
	return &loanHandler{
		loanService: loanService,
	}
}

// calculateSchedule godoc
// @Summary Calculate a loan amortization schedule
// @Description Computes EMI and the installment breakdown for flat or diminishing interest; nothing is persisted
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.AmortizationRequest true "Loan parameters"
// @Success 200 {object} dto.AmortizationScheduleResponse "The schedule"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /loans/amortization [post]
func (h *loanHandler) calculateSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AmortizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for calculateSchedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	schedule, err := h.loanService.CalculateSchedule(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate schedule")
		return
	}
	c.JSON(http.StatusOK, dto.ToAmortizationScheduleResponse(schedule))
}

// registerLoanRoutes registers loan calculator routes.
func registerLoanRoutes(group *gin.RouterGroup, loanService portssvc.LoanService) {
	handler := newLoanHandler(loanService)

	loans := group.Group("/loans")
	{
		loans.POST("/amortization", handler.calculateSchedule)
	}
}
