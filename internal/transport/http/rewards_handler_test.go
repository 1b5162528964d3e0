package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anand1513/wash-while-you-shop/internal/loyalty/domain"
)

func TestRewardRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/rewards", "/rewards/redeemed", "/points/history"} {
		rr := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRewardRedemptionFlow(t *testing.T) {
	router := newTestRouter(t)
	token, _ := login(t, router, "admin@autowash.com", "password")

	// The admin starts at zero points; a 150 point reward is out of reach.
	rr := doJSON(t, router, http.MethodPost, "/rewards/4/redeem", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/points/earn", token,
		AddPointsRequest{Points: 150, Reason: "Promo credit"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, router, http.MethodPost, "/rewards/4/redeem", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, router, http.MethodGet, "/auth/session/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile UserProfileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, 0, profile.LoyaltyPoints)

	rr = doJSON(t, router, http.MethodGet, "/points/history", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history []domain.PointsTransaction
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, domain.DirectionSpent, history[0].Direction)
	assert.Equal(t, domain.DirectionEarned, history[1].Direction)

	rr = doJSON(t, router, http.MethodGet, "/rewards/redeemed", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var redeemed []domain.RedeemedReward
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &redeemed))
	require.Len(t, redeemed, 1)
	assert.Equal(t, "4", redeemed[0].RewardID)
}

func TestCatalogEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token, _ := login(t, router, "john@example.com", "password")

	rr := doJSON(t, router, http.MethodGet, "/rewards", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var catalog []domain.RewardCatalogEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &catalog))
	require.Len(t, catalog, 6)
	assert.Equal(t, 500, catalog[0].PointsCost)
}

func TestAddPointsValidation(t *testing.T) {
	router := newTestRouter(t)
	token, _ := login(t, router, "john@example.com", "password")

	rr := doJSON(t, router, http.MethodPost, "/points/earn", token,
		AddPointsRequest{Points: -10, Reason: "bogus"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
