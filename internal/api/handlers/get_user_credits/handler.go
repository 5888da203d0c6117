package get_user_credits

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StadiumBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	ledger       CreditLedger
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(ledger CreditLedger, logger Logger) *Handler {
	return &Handler{
		ledger:       ledger,
		timeProvider: realTime{},
		logger:       logger,
	}
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// Handle GET /api/v1/users/{userId}/credits
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/credits - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/credits - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	credits, err := h.ledger.ListByUser(r.Context(), userID, actorID)
	if err != nil {
		if errors.Is(err, ledger.ErrAccessDenied) {
			h.logger.Warn("GET /users/{userId}/credits - Access denied: user_id=%d, actor_id=%d", userID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		h.logger.Error("GET /users/{userId}/credits - Failed to list credits: user_id=%d, error=%v", userID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("GET /users/{userId}/credits - Credits retrieved: user_id=%d, count=%d", userID, len(credits))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCredits(credits, h.timeProvider.Now()))
}
