package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	sessiondomain "github.com/Anand1513/wash-while-you-shop/internal/session/domain"
	"github.com/Anand1513/wash-while-you-shop/internal/wallet/domain"
)

// WalletService is the wallet/subscription surface the handler drives.
type WalletService interface {
	Offers() []domain.Offer
	Plans() []domain.SubscriptionPlan
	TopUp(ctx context.Context, amount int, offerID string) (bool, error)
	Subscribe(ctx context.Context, planID sessiondomain.SubscriptionTier) (bool, error)
	CancelSubscription(ctx context.Context) error
}

// WalletHandler exposes wallet top-up and subscription plan routes.
type WalletHandler struct {
	wallet   WalletService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewWalletHandler(wallet WalletService, logger *slog.Logger, validate *validator.Validate) *WalletHandler {
	return &WalletHandler{
		wallet:   wallet,
		logger:   logger.With("handler", "wallet"),
		validate: validate,
	}
}

// RegisterRoutes mounts wallet and subscription routes; all require a
// live session.
func (h *WalletHandler) RegisterRoutes(r chi.Router) {
	r.Get("/wallet/offers", h.handleOffers)
	r.Post("/wallet/topup", h.handleTopUp)
	r.Get("/subscription/plans", h.handlePlans)
	r.Put("/subscription/{planID}", h.handleSubscribe)
	r.Delete("/subscription", h.handleCancel)
}

func (h *WalletHandler) handleOffers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wallet.Offers())
}

func (h *WalletHandler) handlePlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wallet.Plans())
}

func (h *WalletHandler) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		jsonError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.wallet.TopUp(r.Context(), req.Amount, req.OfferID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Top-up failed with internal error", "error", err, "amount", req.Amount)
		jsonError(w, "Top-up failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "Top-up rejected", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Wallet topped up"})
}

func (h *WalletHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	planID := sessiondomain.SubscriptionTier(chi.URLParam(r, "planID"))
	ok, err := h.wallet.Subscribe(r.Context(), planID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Subscription change failed", "error", err, "plan", planID)
		jsonError(w, "Subscription change failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		jsonError(w, "Unknown subscription plan", http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription updated"})
}

func (h *WalletHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.wallet.CancelSubscription(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Subscription cancellation failed", "error", err)
		jsonError(w, "Cancellation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription cancelled"})
}
