package block_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	blockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/block_slot"
)

const (
	msgInvalidFacilityID  = "некорректный ID площадки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgFacilityNotFound   = "площадка не найдена"
	msgForbidden          = "блокировать часы может только владелец площадки или оператор"
	msgSlotInPast         = "час уже начался"
	msgInvalidTimeSlot    = "площадка не работает в выбранный час"
	msgSlotNotAvailable   = "час уже занят бронью или блокировкой"
	msgInvalidInput       = "некорректные параметры блокировки"
)

type Handler struct {
	useCase BlockSlotUseCase
	logger  Logger
}

func NewHandler(useCase BlockSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/facilities/{facilityId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := strconv.ParseInt(mux.Vars(r)["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /facilities/{id}/blocks - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /facilities/{id}/blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BlockSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /facilities/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(facilityID, userID)
	if err != nil {
		h.logger.Warn("POST /facilities/{id}/blocks - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, blockSlot.ErrFacilityNotFound):
			h.logger.Warn("POST /facilities/{id}/blocks - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, blockSlot.ErrAccessDenied):
			h.logger.Warn("POST /facilities/{id}/blocks - Access denied: facility_id=%d, user_id=%d", facilityID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, blockSlot.ErrSlotNotAvailable):
			h.logger.Warn("POST /facilities/{id}/blocks - Slot taken: facility_id=%d, date=%s, hour=%d",
				facilityID, req.Date, req.Hour)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, blockSlot.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, blockSlot.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, domain.ErrInvalidRequest):
			h.logger.Warn("POST /facilities/{id}/blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /facilities/{id}/blocks - Failed to block slot: facility_id=%d, error=%v",
				facilityID, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	h.logger.Info("POST /facilities/{id}/blocks - Slot blocked: facility_id=%d, date=%s, hour=%d, user_id=%d",
		facilityID, req.Date, req.Hour, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
