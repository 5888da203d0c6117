package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/testutil"
	createBooking "github.com/m04kA/SMC-StadiumBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-StadiumBooking/pkg/txmanager"
)

type fakeUseCase struct {
	mu     sync.Mutex
	calls  int
	err    error
	last   *createBooking.Request
	during func() // вызывается во время выполнения
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{
		ID: int64(f.calls), UserID: req.UserID, FacilityID: req.FacilityID, Date: req.Date,
		StartHour: req.StartHour, EndHour: req.StartHour + 1, Status: "pending",
		TotalPrice: 100000, DepositPaid: 30000, AmountDue: 30000, RemainingAmount: 70000,
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

type fakeIdem struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeIdem() *fakeIdem { return &fakeIdem{values: map[string]string{}} }

func (s *fakeIdem) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = "LOCK"
	return true, nil
}

func (s *fakeIdem) SaveResult(ctx context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.values[key] = "RES:" + string(payload)
	return nil
}

func (s *fakeIdem) GetResult(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := strings.CutPrefix(s.values[key], "RES:")
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *fakeIdem) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(s.values, key)
	return nil
}

func newRequest(body, idemKey string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if idemKey != "" {
		req.Header.Set(IdempotencyKeyHeader, idemKey)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), 7))
}

const validBody = `{"facilityId": 3, "bookingDate": "2026-05-03", "startHour": 18, "creditCode": "abc"}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nil, testutil.NopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, ""))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.last)
	assert.Equal(t, int64(7), uc.last.UserID)
	assert.Equal(t, int64(3), uc.last.FacilityID)
	assert.Equal(t, 18, uc.last.StartHour)
	assert.Equal(t, "2026-05-03", uc.last.Date.Format(domain.DateFormat))
	require.NotNil(t, uc.last.CreditCode)
	assert.Equal(t, "abc", *uc.last.CreditCode)

	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 19, resp.EndHour)
	assert.Equal(t, int64(30000), resp.AmountDue)
}

func TestHandle_BadInput(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nil, testutil.NopLogger{})

	for name, body := range map[string]string{
		"broken json":   `{`,
		"unknown field": `{"facilityId": 3, "userId": 1}`,
		"bad date":      `{"facilityId": 3, "bookingDate": "03.05.2026", "startHour": 18}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(body, ""))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandle_MissingUser(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nil, testutil.NopLogger{})
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"slot taken", createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{"facility", createBooking.ErrFacilityNotFound, http.StatusNotFound},
		{"past date", createBooking.ErrInvalidDate, http.StatusBadRequest},
		{"too far", createBooking.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"closed hour", createBooking.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"started", createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"credit", fmt.Errorf("%w: expired", domain.ErrCreditExpired), http.StatusUnprocessableEntity},
		{"storage", fmt.Errorf("%w: %w", createBooking.ErrInternal, txmanager.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{"internal", fmt.Errorf("%w: boom", createBooking.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nil, testutil.NopLogger{})
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(validBody, ""))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_IdempotentReplay(t *testing.T) {
	uc := &fakeUseCase{}
	idem := newFakeIdem()
	h := NewHandler(uc, idem, testutil.NopLogger{})

	first := httptest.NewRecorder()
	h.Handle(first, newRequest(validBody, "req-1"))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "req-1", first.Header().Get(IdempotencyKeyHeader))

	second := httptest.NewRecorder()
	h.Handle(second, newRequest(validBody, "req-1"))
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, uc.calls)

	// другой ключ - новый запрос
	third := httptest.NewRecorder()
	h.Handle(third, newRequest(validBody, "req-2"))
	require.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, 2, uc.calls)
}

func TestHandle_IdempotencyKeyInProgress(t *testing.T) {
	idem := newFakeIdem()
	idem.values["stadium:v1:idem:bookings:7:req-1"] = "LOCK"
	uc := &fakeUseCase{}
	h := NewHandler(uc, idem, testutil.NopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, "req-1"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Zero(t, uc.calls)
}

func TestHandle_FailedRequestReleasesKey(t *testing.T) {
	uc := &fakeUseCase{err: createBooking.ErrSlotNotAvailable}
	idem := newFakeIdem()
	h := NewHandler(uc, idem, testutil.NopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, "req-1"))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, idem.values)

	uc.err = nil
	rec = httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, "req-1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, uc.calls)
}

func TestHandle_IdempotencyStoreDown(t *testing.T) {
	uc := &fakeUseCase{}
	idem := newFakeIdem()
	idem.err = errors.New("redis: connection refused")
	h := NewHandler(uc, idem, testutil.NopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, "req-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, uc.calls)
	assert.Empty(t, rec.Header().Get(IdempotencyKeyHeader))
}

func TestHandle_IdempotencyKeyReusedWithOtherRequest(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, newFakeIdem(), testutil.NopLogger{})

	first := httptest.NewRecorder()
	h.Handle(first, newRequest(validBody, "req-1"))
	require.Equal(t, http.StatusCreated, first.Code)

	// те же параметры в другом порядке - повтор
	same := httptest.NewRecorder()
	h.Handle(same, newRequest(`{"startHour":18,"creditCode":"abc","bookingDate":"2026-05-03","facilityId":3}`, "req-1"))
	require.Equal(t, http.StatusCreated, same.Code)
	assert.JSONEq(t, first.Body.String(), same.Body.String())

	for name, body := range map[string]string{
		"other hour":     `{"facilityId": 3, "bookingDate": "2026-05-03", "startHour": 19, "creditCode": "abc"}`,
		"without credit": `{"facilityId": 3, "bookingDate": "2026-05-03", "startHour": 18}`,
		"other facility": `{"facilityId": 4, "bookingDate": "2026-05-03", "startHour": 18, "creditCode": "abc"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(body, "req-1"))
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
	assert.Equal(t, 1, uc.calls)
}

func TestHandle_ClientGoneDuringExecution(t *testing.T) {
	send := func(h *Handler, uc *fakeUseCase) *httptest.ResponseRecorder {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		uc.during = cancel

		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(validBody, "req-1").WithContext(middleware.WithUserID(ctx, 7)))
		uc.during = nil
		return rec
	}

	t.Run("result is still stored", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, newFakeIdem(), testutil.NopLogger{})
		require.Equal(t, http.StatusCreated, send(h, uc).Code)

		retry := httptest.NewRecorder()
		h.Handle(retry, newRequest(validBody, "req-1"))
		assert.Equal(t, http.StatusCreated, retry.Code)
		assert.Equal(t, 1, uc.calls)
	})

	t.Run("key is still released", func(t *testing.T) {
		uc := &fakeUseCase{err: createBooking.ErrSlotNotAvailable}
		h := NewHandler(uc, newFakeIdem(), testutil.NopLogger{})
		require.Equal(t, http.StatusConflict, send(h, uc).Code)

		// без снятия блокировки повтор получил бы 409 "уже выполняется" без вызова use case
		uc.err = nil
		retry := httptest.NewRecorder()
		h.Handle(retry, newRequest(validBody, "req-1"))
		assert.Equal(t, http.StatusCreated, retry.Code)
		assert.Equal(t, 2, uc.calls)
	})
}
