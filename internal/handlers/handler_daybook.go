package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
)

// dayBookHandler handles HTTP requests for daily cash sessions.
type dayBookHandler struct {
	dayBookService portssvc.DayBookService
}

// newDayBookHandler creates a new dayBookHandler.
func newDayBookHandler(dayBookService portssvc.DayBookService) *dayBookHandler {
	return &dayBookHandler{
		dayBookService: dayBookService,
	}
}

// createDayBook godoc
// @Summary Open a day book
// @Description Opens the cash session for a calendar date, carrying the opening balance forward from the last closed day book
// @Tags daybooks
// @Accept  json
// @Produce  json
// @Param   daybook body dto.CreateDayBookRequest true "Day book details"
// @Success 201 {object} dto.DayBookResponse "The opened day book"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Day book already exists for the date"
// @Router /daybooks [post]
func (h *dayBookHandler) createDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDayBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDayBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dayBook, err := h.dayBookService.CreateDayBook(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create day book")
		return
	}

	logger.Info("Day book opened",
		slog.String("day_book_id", dayBook.DayBookID),
		slog.String("date", dayBook.TransactionDate.Format("2006-01-02")))
	c.JSON(http.StatusCreated, dto.ToDayBookResponse(dayBook))
}

// getDayBook godoc
// @Summary Get a day book
// @Description Retrieves a day book by ID
// @Tags daybooks
// @Produce  json
// @Param   dayBookID path string true "Day book ID"
// @Success 200 {object} dto.DayBookResponse "The day book"
// @Failure 404 {object} map[string]string "Day book not found"
// @Router /daybooks/{dayBookID} [get]
func (h *dayBookHandler) getDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("dayBookID")

	dayBook, err := h.dayBookService.GetDayBookByID(c.Request.Context(), dayBookID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve day book")
		return
	}
	c.JSON(http.StatusOK, dto.ToDayBookResponse(dayBook))
}

// recordTransaction godoc
// @Summary Record a cash movement
// @Description Appends a transaction to an OPEN day book, generating a linked journal entry when a debit/credit account pair is given
// @Tags daybooks
// @Accept  json
// @Produce  json
// @Param   dayBookID path string true "Day book ID"
// @Param   transaction body dto.RecordDayBookTransactionRequest true "Transaction details"
// @Success 201 {object} dto.DayBookTransactionResponse "The recorded transaction"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Day book is not open or is busy"
// @Router /daybooks/{dayBookID}/transactions [post]
func (h *dayBookHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("dayBookID")

	var req dto.RecordDayBookTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.dayBookService.RecordTransaction(c.Request.Context(), dayBookID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transaction")
		return
	}

	logger.Info("Day book transaction recorded",
		slog.String("day_book_id", dayBookID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.TransactionType)))
	c.JSON(http.StatusCreated, dto.ToDayBookTransactionResponse(txn))
}

// reconcileDayBook godoc
// @Summary Reconcile a day book
// @Description Records the physical cash count (direct balance or denomination breakdown) and the discrepancy against the system balance
// @Tags daybooks
// @Accept  json
// @Produce  json
// @Param   dayBookID path string true "Day book ID"
// @Param   reconciliation body dto.ReconcileDayBookRequest true "Physical count"
// @Success 200 {object} dto.DayBookResponse "The reconciled day book"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Day book is not open or is busy"
// @Router /daybooks/{dayBookID}/reconcile [post]
func (h *dayBookHandler) reconcileDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("dayBookID")

	var req dto.ReconcileDayBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reconcileDayBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dayBook, err := h.dayBookService.Reconcile(c.Request.Context(), dayBookID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile day book")
		return
	}

	logger.Info("Day book reconciled",
		slog.String("day_book_id", dayBookID),
		slog.String("discrepancy", dayBook.DiscrepancyAmount.String()))
	c.JSON(http.StatusOK, dto.ToDayBookResponse(dayBook))
}

// closeDayBook godoc
// @Summary Close a day book
// @Description Finalises a reconciled day book; closing is terminal
// @Tags daybooks
// @Produce  json
// @Param   dayBookID path string true "Day book ID"
// @Success 200 {object} dto.DayBookResponse "The closed day book"
// @Failure 404 {object} map[string]string "Day book not found"
// @Failure 409 {object} map[string]string "Day book is not reconciled or is busy"
// @Router /daybooks/{dayBookID}/close [post]
func (h *dayBookHandler) closeDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("dayBookID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dayBook, err := h.dayBookService.Close(c.Request.Context(), dayBookID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close day book")
		return
	}

	logger.Info("Day book closed", slog.String("day_book_id", dayBookID), slog.String("closed_by", userID))
	c.JSON(http.StatusOK, dto.ToDayBookResponse(dayBook))
}

// getDayBookSummary godoc
// @Summary Get a day book summary
// @Description Read-only projection over the day book's transactions and linked journal entries
// @Tags daybooks
// @Produce  json
// @Param   dayBookID path string true "Day book ID"
// @Success 200 {object} domain.DayBookSummary "The summary"
// @Failure 404 {object} map[string]string "Day book not found"
// @Router /daybooks/{dayBookID}/summary [get]
func (h *dayBookHandler) getDayBookSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	dayBookID := c.Param("dayBookID")

	summary, err := h.dayBookService.GetSummary(c.Request.Context(), dayBookID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build day book summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getDayBookByDate godoc
// @Summary Find a day book by date
// @Description Retrieves the day book for a calendar date
// @Tags daybooks
// @Produce  json
// @Param   date query string true "Transaction date (YYYY-MM-DD)"
// @Success 200 {object} dto.DayBookResponse "The day book"
// @Failure 404 {object} map[string]string "No day book for the date"
// @Router /daybooks [get]
func (h *dayBookHandler) getDayBookByDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	raw := c.Query("date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	dayBook, err := h.dayBookService.GetDayBookByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve day book")
		return
	}
	c.JSON(http.StatusOK, dto.ToDayBookResponse(dayBook))
}

// registerDayBookRoutes registers day book routes.
func registerDayBookRoutes(group *gin.RouterGroup, dayBookService portssvc.DayBookService) {
	handler := newDayBookHandler(dayBookService)

	daybooks := group.Group("/daybooks")
	{
		daybooks.POST("", handler.createDayBook)
		daybooks.GET("", handler.getDayBookByDate)
		daybooks.GET("/:dayBookID", handler.getDayBook)
		daybooks.POST("/:dayBookID/transactions", handler.recordTransaction)
		daybooks.POST("/:dayBookID/reconcile", handler.reconcileDayBook)
		daybooks.POST("/:dayBookID/close", handler.closeDayBook)
		daybooks.GET("/:dayBookID/summary", handler.getDayBookSummary)
	}
}
