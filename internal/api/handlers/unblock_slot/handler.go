package unblock_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	unblockSlot "github.com/m04kA/SMC-StadiumBooking/internal/usecase/unblock_slot"
)

const (
	msgInvalidParams    = "некорректные параметры запроса"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgFacilityNotFound = "площадка не найдена"
	msgBlockNotFound    = "блокировка не найдена"
	msgForbidden        = "снимать блокировку может только владелец площадки или оператор"
)

type Handler struct {
	useCase UnblockSlotUseCase
	logger  Logger
}

func NewHandler(useCase UnblockSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/facilities/{facilityId}/blocks/{date}/{hour}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	facilityID, err := strconv.ParseInt(vars["facilityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /facilities/{id}/blocks - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /facilities/{id}/blocks - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}
	hour, err := strconv.Atoi(vars["hour"])
	if err != nil {
		h.logger.Warn("DELETE /facilities/{id}/blocks - Invalid hour: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /facilities/{id}/blocks - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.useCase.Execute(r.Context(), &unblockSlot.Request{
		FacilityID: facilityID,
		ActorID:    userID,
		Date:       date,
		Hour:       hour,
	})
	if err != nil {
		switch {
		case errors.Is(err, unblockSlot.ErrFacilityNotFound):
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, unblockSlot.ErrBlockNotFound):
			h.logger.Warn("DELETE /facilities/{id}/blocks - Block not found: facility_id=%d, date=%s, hour=%d",
				facilityID, vars["date"], hour)
			handlers.RespondNotFound(w, msgBlockNotFound)

		case errors.Is(err, unblockSlot.ErrAccessDenied):
			h.logger.Warn("DELETE /facilities/{id}/blocks - Access denied: facility_id=%d, user_id=%d", facilityID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidRequest):
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("DELETE /facilities/{id}/blocks - Failed to unblock slot: facility_id=%d, error=%v",
				facilityID, err)
			handlers.RespondDomainError(w, err, "")
		}
		return
	}

	h.logger.Info("DELETE /facilities/{id}/blocks - Slot unblocked: facility_id=%d, date=%s, hour=%d, user_id=%d",
		facilityID, vars["date"], hour, userID)
	w.WriteHeader(http.StatusNoContent)
}
