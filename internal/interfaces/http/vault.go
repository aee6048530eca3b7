package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/vault"
)

type VaultService interface {
	CreateVault(ctx context.Context, params vault.CreateParams) (*vault.Vault, error)
	GetVault(ctx context.Context, id, userID uuid.UUID) (*vault.Vault, error)
	ListVaults(ctx context.Context, userID uuid.UUID, includeBroken bool) ([]*vault.Vault, error)
	SaveToVault(ctx context.Context, id, userID uuid.UUID, amount *decimal.Decimal) (*vault.SaveOutcome, error)
	BreakVault(ctx context.Context, id, userID uuid.UUID) (*vault.BreakOutcome, error)
}

type VaultHandler struct {
	vaults VaultService
}

func NewVaultHandler(vaults VaultService) *VaultHandler {
	return &VaultHandler{vaults: vaults}
}

type CreateVaultRequest struct {
	GoalName        string          `json:"goalName" validate:"required,max=128"`
	Emoji           string          `json:"emoji" validate:"max=16"`
	TargetAmount    decimal.Decimal `json:"targetAmount"`
	DailySaveAmount decimal.Decimal `json:"dailySaveAmount"`
}

// SaveRequest overrides the vault's daily amount when Amount is set.
type SaveRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type VaultResponse struct {
	*vault.Vault
	Status    vault.Status    `json:"status"`
	Progress  float64         `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
}

type SaveResponse struct {
	Vault         VaultResponse   `json:"vault"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	BonusPoints   int             `json:"bonusPoints"`
	Completed     bool            `json:"completed"`
}

type BreakResponse struct {
	Vault         VaultResponse   `json:"vault"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	Refund        decimal.Decimal `json:"refund"`
}

// HandleVaults handles GET (list) and POST (create) /api/vaults
func (h *VaultHandler) HandleVaults(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		includeBroken := r.URL.Query().Get("all") == "true"
		vaults, err := h.vaults.ListVaults(r.Context(), userID, includeBroken)
		if err != nil {
			writeServiceError(w, r, "list vaults", err)
			return
		}
		resp := make([]VaultResponse, 0, len(vaults))
		for _, v := range vaults {
			resp = append(resp, toVaultResponse(v))
		}
		writeJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		var req CreateVaultRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		v, err := h.vaults.CreateVault(r.Context(), vault.CreateParams{
			UserID:          userID,
			GoalName:        req.GoalName,
			Emoji:           req.Emoji,
			TargetAmount:    req.TargetAmount,
			DailySaveAmount: req.DailySaveAmount,
		})
		if err != nil {
			writeServiceError(w, r, "create vault", err)
			return
		}
		writeJSON(w, http.StatusCreated, toVaultResponse(v))

	default:
		methodNotAllowed(w)
	}
}

// HandleVaultByID handles GET /api/vaults/{id}
func (h *VaultHandler) HandleVaultByID(w http.ResponseWriter, r *http.Request) {
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

	v, err := h.vaults.GetVault(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, "get vault", err)
		return
	}
	writeJSON(w, http.StatusOK, toVaultResponse(v))
}

// HandleSave handles POST /api/vaults/{id}/save. An empty body saves the
// vault's daily amount.
func (h *VaultHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	var req SaveRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	out, err := h.vaults.SaveToVault(r.Context(), id, userID, req.Amount)
	if err != nil {
		writeServiceError(w, r, "save to vault", err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{
		Vault:         toVaultResponse(out.Vault),
		WalletBalance: out.WalletBalance,
		BonusPoints:   out.BonusPoints,
		Completed:     out.Completed,
	})
}

// HandleBreak handles POST /api/vaults/{id}/break
func (h *VaultHandler) HandleBreak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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

	out, err := h.vaults.BreakVault(r.Context(), id, userID)
	if err != nil {
		writeServiceError(w, r, "break vault", err)
		return
	}
	writeJSON(w, http.StatusOK, BreakResponse{
		Vault:         toVaultResponse(out.Vault),
		WalletBalance: out.WalletBalance,
		Refund:        out.Refund,
	})
}

func toVaultResponse(v *vault.Vault) VaultResponse {
	return VaultResponse{
		Vault:     v,
		Status:    v.Status(),
		Progress:  v.Progress(),
		Remaining: v.Remaining(),
	}
}
