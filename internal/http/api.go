package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fintrack/internal/auth"
	"fintrack/internal/domain"
	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	transactions service.TransactionService
	issuer       *auth.TokenIssuer
	revoked      repository.RevokedTokenRepository
	storage      storage.Service
	bucket       string
	keyPrefix    string
	log          *logrus.Logger
}

func NewHandler(
	users service.UserService,
	transactions service.TransactionService,
	issuer *auth.TokenIssuer,
	revoked repository.RevokedTokenRepository,
	store storage.Service,
	bucket, keyPrefix string,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		users:        users,
		transactions: transactions,
		issuer:       issuer,
		revoked:      revoked,
		storage:      store,
		bucket:       bucket,
		keyPrefix:    keyPrefix,
		log:          log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
		})

		protected := api.Group("", auth.RequireSession(h.issuer, h.revoked))
		protected.GET("/me", h.me)
		protected.POST("/transactions", h.addTransaction)
		protected.GET("/transactions", h.listTransactions)
		protected.POST("/transactions/export", h.exportStatement)
		protected.GET("/statements", h.listStatements)
	}
}

// --- response envelope -------------------------------------------------

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondError never echoes internal error detail; callers log it instead.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log.WithError(err).Errorf("%s failed", op)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// --- auth --------------------------------------------------------------

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUsernameTaken):
			respondError(c, http.StatusConflict, err.Error())
		default:
			h.internalError(c, "register", err)
		}
		return
	}

	respondData(c, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.internalError(c, "login", err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Username)
	if err != nil {
		h.internalError(c, "issue token", err)
		return
	}

	c.SetCookie(auth.SessionCookieName, token, int(h.issuer.TTL().Seconds()), "/", "", false, true)
	respondMessage(c, http.StatusOK, "login successful")
}

func (h *Handler) logout(c *gin.Context) {
	// Best effort revocation: a missing or garbage cookie still logs out.
	if tokenString, err := c.Cookie(auth.SessionCookieName); err == nil && tokenString != "" {
		if identity, err := h.issuer.Verify(tokenString); err == nil && identity.TokenID != "" {
			ctx := c.Request.Context()
			if err := h.revoked.Revoke(ctx, identity.TokenID, identity.UserID, identity.ExpiresAt); err != nil {
				h.log.WithError(err).Warn("revoke token")
			}
			if err := h.revoked.DeleteExpired(ctx, time.Now()); err != nil {
				h.log.WithError(err).Warn("prune revoked tokens")
			}
		}
	}

	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	respondMessage(c, http.StatusOK, "logout successful")
}

func (h *Handler) me(c *gin.Context) {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		respondError(c, http.StatusUnauthorized, "authorization required")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"userId":   identity.UserID,
		"username": identity.Username,
	})
}

// --- transactions ------------------------------------------------------

type addTransactionRequest struct {
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

type summaryResponse struct {
	TotalIncome  int64 `json:"totalIncome"`
	TotalOutcome int64 `json:"totalOutcome"`
	Balance      int64 `json:"balance"`
}

func (h *Handler) addTransaction(c *gin.Context) {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		respondError(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var req addTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	occurredAt, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be RFC3339 or YYYY-MM-DD")
		return
	}

	tx, err := h.transactions.Add(
		c.Request.Context(),
		identity.UserID,
		req.Amount,
		occurredAt,
		domain.TransactionKind(req.Status),
		req.Description,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount),
			errors.Is(err, service.ErrInvalidKind),
			errors.Is(err, service.ErrMissingDate):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.internalError(c, "add transaction", err)
		}
		return
	}

	respondData(c, http.StatusCreated, transactionToResponse(*tx))
}

func (h *Handler) listTransactions(c *gin.Context) {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		respondError(c, http.StatusUnauthorized, "authorization required")
		return
	}

	year, month, err := yearMonthParams(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.transactions.MonthlyReport(c.Request.Context(), identity.UserID, year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "monthly report", err)
		return
	}

	transactions := make([]transactionResponse, len(report.Transactions))
	for i := range report.Transactions {
		transactions[i] = transactionToResponse(report.Transactions[i])
	}

	respondData(c, http.StatusOK, gin.H{
		"transactions": transactions,
		"summary": summaryResponse{
			TotalIncome:  report.Summary.TotalIncome,
			TotalOutcome: report.Summary.TotalOutcome,
			Balance:      report.Summary.Balance,
		},
	})
}

// --- statement export --------------------------------------------------

func (h *Handler) exportStatement(c *gin.Context) {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		respondError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	if h.storage == nil || h.bucket == "" {
		respondError(c, http.StatusServiceUnavailable, "statement storage is not configured")
		return
	}

	year, month, err := yearMonthParams(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.transactions.MonthlyReport(c.Request.Context(), identity.UserID, year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "monthly report", err)
		return
	}

	body, err := renderStatementCSV(report)
	if err != nil {
		h.internalError(c, "render statement", err)
		return
	}

	key := fmt.Sprintf("%s/user-%d/%04d-%02d.csv", h.keyPrefix, identity.UserID, year, month)
	location, err := h.storage.Upload(c.Request.Context(), h.bucket, key, "text/csv", bytes.NewReader(body))
	if err != nil {
		h.internalError(c, "upload statement", err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"key":      key,
		"location": location,
	})
}

func (h *Handler) listStatements(c *gin.Context) {
	identity := auth.IdentityFromContext(c)
	if identity == nil {
		respondError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	if h.storage == nil || h.bucket == "" {
		respondError(c, http.StatusServiceUnavailable, "statement storage is not configured")
		return
	}

	prefix := fmt.Sprintf("%s/user-%d/", h.keyPrefix, identity.UserID)
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		h.internalError(c, "list statements", err)
		return
	}

	resp := make([]gin.H, len(objects))
	for i, obj := range objects {
		item := gin.H{"key": obj.Key, "size": obj.Size}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			item["lastModified"] = obj.LastModified.Format(time.RFC3339)
		}
		resp[i] = item
	}
	respondData(c, http.StatusOK, resp)
}

func renderStatementCSV(report *service.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"id", "date", "kind", "amount_minor_units", "description"}}
	for _, tx := range report.Transactions {
		records = append(records, []string{
			strconv.FormatInt(tx.ID, 10),
			tx.OccurredAt.Format(time.RFC3339),
			string(tx.Kind),
			strconv.FormatInt(tx.Amount, 10),
			tx.Description,
		})
	}
	records = append(records,
		[]string{"", "", "total_income", strconv.FormatInt(report.Summary.TotalIncome, 10), ""},
		[]string{"", "", "total_outcome", strconv.FormatInt(report.Summary.TotalOutcome, 10), ""},
		[]string{"", "", "balance", strconv.FormatInt(report.Summary.Balance, 10), ""},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// --- helpers -----------------------------------------------------------

// yearMonthParams reads year/month query params, defaulting to the current
// UTC month when both are absent.
func yearMonthParams(c *gin.Context) (int, int, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year")
		}
		year = y
	}
	if s := c.Query("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month")
		}
		month = m
	}
	return year, month, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func transactionToResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Status:      string(tx.Kind),
		Description: tx.Description,
		Date:        tx.OccurredAt.Format(time.RFC3339),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
