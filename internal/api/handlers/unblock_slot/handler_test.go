package unblock_slot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	unblockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/unblock_slot"
)

type fakeUseCase struct{ err error }

func (f fakeUseCase) Execute(context.Context, *unblockSlot.Request) error { return f.err }

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"ok", "/facilities/2/blocks/2026-05-03/9", nil, http.StatusNoContent},
		{"bad date", "/facilities/2/blocks/03-05-2026/9", nil, http.StatusBadRequest},
		{"bad hour", "/facilities/2/blocks/2026-05-03/nine", nil, http.StatusBadRequest},
		{"no block", "/facilities/2/blocks/2026-05-03/9", unblockSlot.ErrBlockNotFound, http.StatusNotFound},
		{"forbidden", "/facilities/2/blocks/2026-05-03/9", unblockSlot.ErrAccessDenied, http.StatusForbidden},
		{"internal", "/facilities/2/blocks/2026-05-03/9", unblockSlot.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/facilities/{facilityId}/blocks/{date}/{hour}",
				NewHandler(fakeUseCase{err: tt.err}, testutil.NopLogger{}).Handle).Methods(http.MethodDelete)
			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			req = req.WithContext(middleware.WithUserID(req.Context(), 1))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
