package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pennyverse/internal/domain/profile"
)

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, params profile.UpdateParams) (*profile.Profile, error)
	TopUp(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*profile.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileService
}

func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type UpdateProfileRequest struct {
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome"`
	UPIID         *string          `json:"upiId" validate:"omitempty,max=64"`
}

type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ProfileResponse struct {
	*profile.Profile
	NeedsOnboarding bool `json:"needsOnboarding"`
}

// HandleProfile handles GET and PATCH /api/profile
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.profiles.Get(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, "get profile", err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))

	case http.MethodPatch:
		var req UpdateProfileRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := h.profiles.Update(r.Context(), userID, profile.UpdateParams{
			MonthlyIncome: req.MonthlyIncome,
			UPIID:         req.UPIID,
		})
		if err != nil {
			writeServiceError(w, r, "update profile", err)
			return
		}
		writeJSON(w, http.StatusOK, toProfileResponse(p))

	default:
		methodNotAllowed(w)
	}
}

// HandleTopUp handles POST /api/profile/wallet/top-up
func (h *ProfileHandler) HandleTopUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.profiles.TopUp(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, r, "top up wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func toProfileResponse(p *profile.Profile) ProfileResponse {
	return ProfileResponse{Profile: p, NeedsOnboarding: p.NeedsOnboarding()}
}
