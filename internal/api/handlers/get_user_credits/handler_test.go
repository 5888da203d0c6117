package get_user_credits

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeLedger struct {
	credits []*domain.CompensationCredit
	err     error
}

func (f fakeLedger) ListByUser(_ context.Context, _, _ int64) ([]*domain.CompensationCredit, error) {
	return f.credits, f.err
}

func serve(h *Handler, target string, actorID int64) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/users/{userId}/credits", h.Handle).Methods(http.MethodGet)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ListsCreditsWithExpiry(t *testing.T) {
	used := now.Add(-time.Hour)
	h := NewHandler(fakeLedger{credits: []*domain.CompensationCredit{
		{Code: "a", BeneficiaryID: 5, Value: 30000, ExpiresAt: now.Add(24 * time.Hour)},
		{Code: "b", BeneficiaryID: 5, Value: 10000, ExpiresAt: now.Add(-time.Minute)},
		{Code: "c", BeneficiaryID: 5, Value: 5000, ExpiresAt: now.Add(time.Hour), IsUsed: true, RedeemedAt: &used},
	}}, testutil.NopLogger{})
	h.timeProvider = testutil.NewClock(now)

	rec := serve(h, "/users/5/credits", 5)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []CreditResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 3)
	assert.False(t, resp[0].IsExpired)
	assert.True(t, resp[1].IsExpired)
	assert.True(t, resp[2].IsUsed)
	require.NotNil(t, resp[2].RedeemedAt)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(NewHandler(fakeLedger{err: ledger.ErrAccessDenied}, testutil.NopLogger{}), "/users/5/credits", 6)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(NewHandler(fakeLedger{}, testutil.NopLogger{}), "/users/x/credits", 5)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(NewHandler(fakeLedger{err: ledger.ErrInternal}, testutil.NopLogger{}), "/users/5/credits", 5)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
