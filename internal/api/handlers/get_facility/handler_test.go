package get_facility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities/models"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
)

type fakeService struct{ err error }

func (f fakeService) Get(_ context.Context, id int64) (*models.FacilityResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.FacilityResponse{ID: id}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"ok", "/facilities/1", nil, http.StatusOK},
		{"bad id", "/facilities/one", nil, http.StatusBadRequest},
		{"not found", "/facilities/1", facilities.ErrFacilityNotFound, http.StatusNotFound},
		{"internal", "/facilities/1", facilities.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/facilities/{facilityId}", NewHandler(fakeService{err: tt.err}, testutil.NopLogger{}).Handle)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
