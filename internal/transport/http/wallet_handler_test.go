package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anand1513/wash-while-you-shop/internal/wallet/domain"
)

func TestWalletTopUpOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token, user := login(t, router, "john@example.com", "password")
	require.Equal(t, 500, user.WalletBalance)

	t.Run("below minimum is rejected", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/wallet/topup", token,
			TopUpRequest{Amount: 50})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("offer bonus lands in the balance", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/wallet/topup", token,
			TopUpRequest{Amount: 500, OfferID: "1"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = doJSON(t, router, http.MethodGet, "/auth/session/me", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var profile UserProfileResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
		assert.Equal(t, 500+500+100, profile.WalletBalance)
	})
}

func TestSubscriptionOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token, _ := login(t, router, "john@example.com", "password")

	rr := doJSON(t, router, http.MethodGet, "/subscription/plans", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var plans []domain.SubscriptionPlan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plans))
	require.Len(t, plans, 3)

	rr = doJSON(t, router, http.MethodPut, "/subscription/platinum", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, router, http.MethodPut, "/subscription/diamond", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSON(t, router, http.MethodDelete, "/subscription", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/auth/session/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var profile UserProfileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, "none", string(profile.SubscriptionTier))
}
