package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalService
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalService) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the double-entry invariant and persists a DRAFT entry with its lines
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry with lines"
// @Success 201 {object} dto.EntryResponse "The created entry"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 422 {object} map[string]string "Unbalanced entry"
// @Router /entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create entry")
		return
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines by ID
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse "The entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first, optionally filtered by status
// @Tags entries
// @Produce  json
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, REVERSED)
// @Param   limit query int false "Page size (default 20)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.EntryResponse "Entries"
// @Router /entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if raw := c.Query("status"); raw != "" {
		status := domain.EntryStatus(raw)
		if status != domain.Draft && status != domain.Posted && status != domain.Reversed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown entry status"})
			return
		}
		params.Status = &status
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Re-validates balance and flips the entry from DRAFT to POSTED
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse "The posted entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	approverUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, approverUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("approved_by", approverUserID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Creates a posted mirror entry and flips the original from POSTED to REVERSED
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal reason"
// @Success 201 {object} dto.EntryResponse "The reversal entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Router /entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// deleteEntry godoc
// @Summary Delete a draft entry
// @Description Deletes a DRAFT entry and its lines; posted entries are immutable
// @Tags entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	if err := h.journalService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete entry")
		return
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// registerJournalRoutes registers journal entry routes.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalService) {
	handler := newJournalHandler(journalService)

	entries := group.Group("/entries")
	{
		entries.POST("", handler.createEntry)
		entries.GET("", handler.listEntries)
		entries.GET("/:entryID", handler.getEntry)
		entries.DELETE("/:entryID", handler.deleteEntry)
		entries.POST("/:entryID/post", handler.postEntry)
		entries.POST("/:entryID/reverse", handler.reverseEntry)
	}
}
