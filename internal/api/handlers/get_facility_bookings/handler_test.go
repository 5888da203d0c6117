package get_facility_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/bookings"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
)

type fakeService struct {
	err  error
	last *models.GetFacilityBookingsRequest
}

func (f *fakeService) GetFacilityBookings(_ context.Context, req *models.GetFacilityBookingsRequest) (*models.BookingListResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1, FacilityID: req.FacilityID}}}, nil
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/facilities/{facilityId}/bookings", h.Handle).Methods(http.MethodGet)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(3, 9, url.Values{
		"startDate":        {"2026-05-01"},
		"endDate":          {"2026-05-07"},
		"status":           {"confirmed"},
		"includeCancelled": {"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", req.StartDate.Format(domain.DateFormat))
	assert.Equal(t, "2026-05-07", req.EndDate.Format(domain.DateFormat))
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.IncludeCancelled)
	assert.Equal(t, int64(9), req.ActorID)

	req, err = ToServiceRequest(3, 9, url.Values{"date": {"2026-05-03"}})
	require.NoError(t, err)
	assert.Equal(t, *req.StartDate, *req.EndDate)

	_, err = ToServiceRequest(3, 9, url.Values{"includeCancelled": {"maybe"}})
	assert.Error(t, err)
	_, err = ToServiceRequest(3, 9, url.Values{"startDate": {"01.05.2026"}})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(NewHandler(svc, testutil.NopLogger{}), "/facilities/3/bookings?date=2026-05-03")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.last.FacilityID)

	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"bad id", "/facilities/abc/bookings", nil, http.StatusBadRequest},
		{"bad params", "/facilities/3/bookings?endDate=x", nil, http.StatusBadRequest},
		{"forbidden", "/facilities/3/bookings", bookings.ErrAccessDenied, http.StatusForbidden},
		{"not found", "/facilities/3/bookings", bookings.ErrFacilityNotFound, http.StatusNotFound},
		{"invalid range", "/facilities/3/bookings", bookings.ErrInvalidInput, http.StatusBadRequest},
		{"internal", "/facilities/3/bookings", bookings.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeService{err: tt.err}, testutil.NopLogger{}), tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
