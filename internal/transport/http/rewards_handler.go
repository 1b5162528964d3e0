package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
)

// LedgerService is the loyalty surface the rewards handler drives.
type LedgerService interface {
	Catalog() []domain.RewardCatalogEntry
	AddPoints(ctx context.Context, points int, reason string) error
	RedeemReward(ctx context.Context, rewardID string) (bool, error)
	PointsHistory(ctx context.Context) ([]domain.PointsTransaction, error)
	Redemptions(ctx context.Context) ([]domain.RedeemedReward, error)
}

// RewardsHandler exposes the catalog, redemption, and points routes.
type RewardsHandler struct {
	ledger   LedgerService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewRewardsHandler(ledger LedgerService, logger *slog.Logger, validate *validator.Validate) *RewardsHandler {
	return &RewardsHandler{
		ledger:   ledger,
		logger:   logger.With("handler", "rewards"),
		validate: validate,
	}
}

// RegisterRoutes mounts the reward and points routes; all require a live
// session except the catalog, which the caller may mount publicly.
func (h *RewardsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/rewards", h.handleCatalog)
	r.Get("/rewards/redeemed", h.handleRedemptions)
	r.Post("/rewards/{rewardID}/redeem", h.handleRedeem)
	r.Get("/points/history", h.handlePointsHistory)
	r.Post("/points/earn", h.handleAddPoints)
}

func (h *RewardsHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Catalog())
}

func (h *RewardsHandler) handleRedemptions(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.ledger.Redemptions(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load redemptions", "error", err)
		jsonError(w, "Failed to load redeemed rewards", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, redemptions)
}

func (h *RewardsHandler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	rewardID := chi.URLParam(r, "rewardID")
	ok, err := h.ledger.RedeemReward(r.Context(), rewardID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Redemption failed with internal error", "error", err, "reward_id", rewardID)
		jsonError(w, "Redemption failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		// Unavailable reward or insufficient points; the notifier already
		// carried the detail to the user.
		jsonError(w, "Reward could not be redeemed", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reward redeemed"})
}

func (h *RewardsHandler) handlePointsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.ledger.PointsHistory(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load points history", "error", err)
		jsonError(w, "Failed to load points history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *RewardsHandler) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	var req AddPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		jsonError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.ledger.AddPoints(r.Context(), req.Points, req.Reason); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to add points", "error", err, "points", req.Points)
		jsonError(w, "Failed to add points", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Points credited"})
}
