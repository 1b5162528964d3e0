package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminHandler exposes the administrative view. The router wraps it in
// the AdminOnly middleware; the handler itself trusts the gate.
type AdminHandler struct {
	session SessionService
	ledger  LedgerService
	logger  *slog.Logger
}

func NewAdminHandler(session SessionService, ledger LedgerService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		session: session,
		ledger:  ledger,
		logger:  logger.With("handler", "admin"),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.handleOverview)
}

type adminOverviewResponse struct {
	Operator      UserProfileResponse `json:"operator"`
	CatalogSize   int                 `json:"catalog_size"`
	Redemptions   int                 `json:"redemptions"`
	PointsEntries int                 `json:"points_entries"`
}

func (h *AdminHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	user := h.session.CurrentUser()
	if user == nil {
		jsonError(w, "No active session", http.StatusUnauthorized)
		return
	}

	redemptions, err := h.ledger.Redemptions(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load redemptions for overview", "error", err)
		jsonError(w, "Failed to build overview", http.StatusInternalServerError)
		return
	}
	history, err := h.ledger.PointsHistory(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to load points history for overview", "error", err)
		jsonError(w, "Failed to build overview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, adminOverviewResponse{
		Operator:      profileFromUser(user),
		CatalogSize:   len(h.ledger.Catalog()),
		Redemptions:   len(redemptions),
		PointsEntries: len(history),
	})
}
