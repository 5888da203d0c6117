package block_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	blockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/block_slot"
)

type fakeUseCase struct {
	err  error
	last *blockSlot.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *blockSlot.Request) (*blockSlot.Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &blockSlot.Response{ID: 1, FacilityID: req.FacilityID, Date: req.Date, StartHour: req.Hour,
		EndHour: req.Hour + 1, Reason: req.Reason, CreatedBy: req.ActorID, CreatedAt: time.Now()}, nil
}

func serve(h *Handler, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/facilities/{facilityId}/blocks", h.Handle).Methods(http.MethodPost)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(NewHandler(uc, testutil.NopLogger{}), "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9, "reason": "турнир"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2), uc.last.FacilityID)
	assert.Equal(t, 9, uc.last.Hour)
	assert.Equal(t, "турнир", uc.last.Reason)

	tests := []struct {
		name   string
		target string
		body   string
		err    error
		want   int
	}{
		{"bad id", "/facilities/q/blocks", `{}`, nil, http.StatusBadRequest},
		{"bad date", "/facilities/2/blocks", `{"date": "x", "hour": 9}`, nil, http.StatusBadRequest},
		{"not found", "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9}`, blockSlot.ErrFacilityNotFound, http.StatusNotFound},
		{"forbidden", "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9}`, blockSlot.ErrAccessDenied, http.StatusForbidden},
		{"taken", "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9}`, blockSlot.ErrSlotNotAvailable, http.StatusConflict},
		{"past", "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9}`, blockSlot.ErrSlotInPast, http.StatusBadRequest},
		{"internal", "/facilities/2/blocks", `{"date": "2026-05-03", "hour": 9}`, blockSlot.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, testutil.NopLogger{}), tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
