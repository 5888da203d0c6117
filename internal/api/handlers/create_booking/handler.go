package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/cache"
	createBooking "github.com/m04kA/SMC-StadiumBooking/internal/usecase/create_booking"
)

// IdempotencyKeyHeader заголовок с ключом идемпотентности запроса
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotAvailable   = "выбранный час уже занят"
	msgFacilityNotFound   = "площадка не найдена"
	msgInvalidBookingDate = "дата бронирования в прошлом"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot    = "площадка не работает в выбранный час"
	msgTooLateToBook      = "слишком поздно для бронирования этого часа"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgInvalidCredit      = "код компенсации недействителен"
	msgInProgress         = "запрос с этим ключом идемпотентности уже выполняется"
	msgKeyReused          = "ключ идемпотентности уже использован с другими параметрами"

	lockTTL      = 60 * time.Second
	storeTimeout = 3 * time.Second // запись результата и снятие блокировки
)

type Handler struct {
	useCase CreateBookingUseCase
	idem    IdempotencyStore // nil = без идемпотентности
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, idem IdempotencyStore, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		idem:    idem,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Повтор запроса с тем же ключом получает сохраненный ответ
	idemKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	var storageKey, fingerprint string
	if h.idem != nil && idemKey != "" {
		storageKey = cache.KeyCreateBooking(userID, idemKey)
		fingerprint = req.Fingerprint()
		if h.replay(w, r, storageKey, idemKey, fingerprint) {
			return
		}

		locked, err := h.idem.AcquireLock(r.Context(), storageKey, lockTTL)
		switch {
		case err != nil:
			// хранилище недоступно: работаем без идемпотентности
			h.logger.Warn("POST /bookings - Idempotency store unavailable: %v", err)
			storageKey = ""
		case !locked:
			if h.replay(w, r, storageKey, idemKey, fingerprint) {
				return
			}
			w.Header().Set("Retry-After", "1")
			handlers.RespondConflict(w, msgInProgress)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if storageKey != "" {
			h.release(r.Context(), storageKey)
		}
		h.respondError(w, err, userID, req.FacilityID)
		return
	}

	response := FromUseCaseResponse(result)

	if storageKey != "" {
		h.save(r.Context(), storageKey, fingerprint, response)
		w.Header().Set(IdempotencyKeyHeader, idemKey)
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, facility_id=%d",
		result.ID, userID, req.FacilityID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// replay отвечает сохраненным результатом. Ключ, использованный с другим телом, получает 422.
func (h *Handler) replay(w http.ResponseWriter, r *http.Request, storageKey, idemKey, fingerprint string) bool {
	payload, found, err := h.idem.GetResult(r.Context(), storageKey)
	if err != nil || !found {
		return false
	}

	var stored storedResponse
	if err := json.Unmarshal(payload, &stored); err != nil {
		h.logger.Error("POST /bookings - Corrupted idempotent result: %v", err)
		handlers.RespondInternalError(w)
		return true
	}
	if stored.Fingerprint != fingerprint {
		h.logger.Warn("POST /bookings - Idempotency key reused with a different request")
		handlers.RespondUnprocessable(w, msgKeyReused)
		return true
	}

	h.logger.Info("POST /bookings - Replaying stored response for idempotency key")
	w.Header().Set(IdempotencyKeyHeader, idemKey)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(stored.Body)
	return true
}

func (h *Handler) save(ctx context.Context, storageKey, fingerprint string, response *BookingResponse) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	body, _ := json.Marshal(response)
	payload, _ := json.Marshal(storedResponse{Fingerprint: fingerprint, Body: body})
	if err := h.idem.SaveResult(ctx, storageKey, payload); err != nil {
		h.logger.Warn("POST /bookings - Failed to save idempotent result: %v", err)
	}
}

func (h *Handler) release(ctx context.Context, storageKey string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	if err := h.idem.Release(ctx, storageKey); err != nil {
		h.logger.Warn("POST /bookings - Failed to release idempotency key: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error, userID, facilityID int64) {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		h.logger.Warn("POST /bookings - Slot not available: user_id=%d, facility_id=%d", userID, facilityID)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, createBooking.ErrFacilityNotFound):
		h.logger.Warn("POST /bookings - Facility not found: facility_id=%d", facilityID)
		handlers.RespondNotFound(w, msgFacilityNotFound)

	case errors.Is(err, createBooking.ErrInvalidDate):
		h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, facility_id=%d", userID, facilityID)
		handlers.RespondBadRequest(w, msgInvalidBookingDate)

	case errors.Is(err, createBooking.ErrDateTooFarInFuture):
		h.logger.Warn("POST /bookings - Date too far in future: user_id=%d, facility_id=%d", userID, facilityID)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createBooking.ErrInvalidTimeSlot):
		h.logger.Warn("POST /bookings - Invalid time slot: user_id=%d, facility_id=%d", userID, facilityID)
		handlers.RespondBadRequest(w, msgInvalidTimeSlot)

	case errors.Is(err, createBooking.ErrTooLateToBook):
		h.logger.Warn("POST /bookings - Too late to book: user_id=%d, facility_id=%d", userID, facilityID)
		handlers.RespondBadRequest(w, msgTooLateToBook)

	case errors.Is(err, domain.ErrInvalidCode):
		h.logger.Warn("POST /bookings - Invalid credit code: user_id=%d, error=%v", userID, err)
		handlers.RespondUnprocessable(w, msgInvalidCredit)

	case errors.Is(err, domain.ErrInvalidRequest):
		h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, facility_id=%d, error=%v",
			userID, facilityID, err)
		handlers.RespondDomainError(w, err, "")
	}
}
