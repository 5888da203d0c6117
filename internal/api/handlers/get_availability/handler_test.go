package get_availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	getAvailability "github.com/m04kA/SMC-StadiumBooking/internal/usecase/get_availability"
)

type fakeUseCase struct {
	resp *getAvailability.Response
	err  error
	last *getAvailability.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.last = req
	return f.resp, f.err
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/facilities/{facilityId}/availability", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	date, _ := domain.ParseDate("2026-05-03")
	uc := &fakeUseCase{resp: &getAvailability.Response{
		FacilityID: 3, Date: date, Period: "evening",
		AvailableSlots: []int{18, 20}, AvailableCount: 2, TotalSlots: 4,
	}}

	rec := serve(NewHandler(uc, testutil.NopLogger{}), "/facilities/3/availability?date=2026-05-03&period=evening")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "evening", uc.last.Period)
	assert.Equal(t, int64(3), uc.last.FacilityID)

	var resp AvailabilityResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []int{18, 20}, resp.AvailableSlots)
	assert.Equal(t, "2026-05-03", resp.Date)
	assert.Equal(t, 4, resp.TotalSlots)
}

func TestHandle_EmptyDayRendersEmptyList(t *testing.T) {
	date, _ := domain.ParseDate("2026-05-03")
	uc := &fakeUseCase{resp: &getAvailability.Response{FacilityID: 3, Date: date, Period: "all"}}

	rec := serve(NewHandler(uc, testutil.NopLogger{}), "/facilities/3/availability?date=2026-05-03")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"availableSlots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad id", "/facilities/x/availability?date=2026-05-03", nil, http.StatusBadRequest},
		{"missing date", "/facilities/3/availability", nil, http.StatusBadRequest},
		{"bad date", "/facilities/3/availability?date=tomorrow", nil, http.StatusBadRequest},
		{"not found", "/facilities/3/availability?date=2026-05-03", getAvailability.ErrFacilityNotFound, http.StatusNotFound},
		{"past", "/facilities/3/availability?date=2026-05-03", getAvailability.ErrInvalidDate, http.StatusBadRequest},
		{"unknown period", "/facilities/3/availability?date=2026-05-03&period=night",
			fmt.Errorf("%w: unknown period", domain.ErrInvalidRequest), http.StatusBadRequest},
		{"internal", "/facilities/3/availability?date=2026-05-03",
			fmt.Errorf("%w: db", getAvailability.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, testutil.NopLogger{}), tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
