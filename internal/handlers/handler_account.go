package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService portssvc.AccountService) *accountHandler {
	return &accountHandler{
		accountService: accountService,
	}
}

// createAccount godoc
// @Summary Create a new ledger account
// @Description Creates an account in the chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse "The created account"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Duplicate account code"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves an account by its ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse "The account"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates the mutable fields of an account; code and type are immutable
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse "The updated account"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Cyclic or self parent"
// @Router /accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that has no children and no journal activity
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has children or journal activity"
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountStructure godoc
// @Summary Get the account hierarchy
// @Description Returns the chart of accounts as a tree with rolled-up balances
// @Tags accounts
// @Produce  json
// @Param   type query string false "Filter by account type" Enums(ASSET, LIABILITY, EQUITY, INCOME, EXPENSE)
// @Param   active query bool false "Filter by active flag"
// @Success 200 {array} dto.AccountNodeResponse "Root accounts with children"
// @Router /accounts/structure [get]
func (h *accountHandler) getAccountStructure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var typeFilter *domain.AccountType
	if raw := c.Query("type"); raw != "" {
		t := domain.AccountType(raw)
		if !t.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown account type"})
			return
		}
		typeFilter = &t
	}
	var activeFilter *bool
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		activeFilter = &active
	}

	nodes, err := h.accountService.GetAccountStructure(c.Request.Context(), typeFilter, activeFilter)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build account structure")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountNodeResponses(nodes))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Computes the rolled-up balance of the account and its descendants from posted entries
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Balance as of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]string "Account balance"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	balance, err := h.accountService.Balance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accountID": accountID,
		"asOf":      asOf.Format("2006-01-02"),
		"balance":   balance,
	})
}

// registerAccountRoutes registers chart-of-accounts routes.
func registerAccountRoutes(group *gin.RouterGroup, accountService portssvc.AccountService) {
	handler := newAccountHandler(accountService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", handler.createAccount)
		accounts.GET("/structure", handler.getAccountStructure)
		accounts.GET("/:accountID", handler.getAccount)
		accounts.PUT("/:accountID", handler.updateAccount)
		accounts.DELETE("/:accountID", handler.deleteAccount)
		accounts.GET("/:accountID/balance", handler.getAccountBalance)
	}
}
