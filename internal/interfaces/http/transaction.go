package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/transaction"
)

type TransactionService interface {
	CreateTransaction(ctx context.Context, params transaction.CreateTransactionParams) (*transaction.CreateResult, error)
	GetTransaction(ctx context.Context, id, userID uuid.UUID) (*transaction.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*transaction.Transaction, int64, error)
}

type TransactionHandler struct {
	transactions TransactionService
}

func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type CreateTransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
	Type        string          `json:"type" validate:"required,oneof=income expense"`
	// Payee is a phone number or UPI id for quick pay.
	Payee string `json:"payee" validate:"max=64"`
	// Category overrides the classifier for expenses; empty means auto.
	Category string `json:"category" validate:"max=32"`
}

type TransactionListResponse struct {
	Transactions []*transaction.Transaction `json:"transactions"`
	Total        int64                      `json:"total"`
	Limit        int                        `json:"limit"`
	Offset       int                        `json:"offset"`
}

type ClassifyResponse struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// HandleTransactions handles GET (list) and POST (create) /api/transactions
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	default:
		methodNotAllowed(w)
	}
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txns, total, err := h.transactions.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, r, "list transactions", err)
		return
	}

	// the service clamps out-of-range values; echo what it used
	if limit < 1 || limit > 200 {
		limit = 50
	}
	writeJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: txns,
		Total:        total,
		Limit:        limit,
		Offset:       max(offset, 0),
	})
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req CreateTransactionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.transactions.CreateTransaction(r.Context(), transaction.CreateTransactionParams{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
		Type:        transaction.Type(req.Type),
		Payee:       req.Payee,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(w, r, "create transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleTransactionByID handles GET /api/transactions/{id}
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	txn, err := h.transactions.GetTransaction(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, "get transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

// HandleClassify handles GET /api/classify?description=
func HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	desc := strings.TrimSpace(r.URL.Query().Get("description"))
	if desc == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Description: desc,
		Category:    transaction.Classify(desc),
	})
}
