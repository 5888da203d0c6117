package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-StadiumBooking/internal/usecase/get_availability"
)

const (
	msgInvalidFacilityID = "некорректный ID площадки"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgFacilityNotFound  = "площадка не найдена"
	msgPastDate          = "дата в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
	msgInvalidParams     = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/availability
// Query params: date (required, YYYY-MM-DD), period (optional, по умолчанию all)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := strconv.ParseInt(mux.Vars(r)["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/availability - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /facilities/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(facilityID, dateStr, r.URL.Query().Get("period"))
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrFacilityNotFound):
			h.logger.Warn("GET /facilities/{id}/availability - Facility not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /facilities/{id}/availability - Past date: facility_id=%d, date=%s", facilityID, dateStr)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /facilities/{id}/availability - Date too far: facility_id=%d, date=%s", facilityID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, domain.ErrInvalidRequest):
			h.logger.Warn("GET /facilities/{id}/availability - Invalid parameters: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /facilities/{id}/availability - Failed to get availability: facility_id=%d, error=%v",
				facilityID, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	h.logger.Info("GET /facilities/{id}/availability - Availability retrieved: facility_id=%d, date=%s, free=%d",
		facilityID, dateStr, result.AvailableCount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
