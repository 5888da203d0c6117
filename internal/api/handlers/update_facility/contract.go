package update_facility

import (
	"context"

	"github.com/m04kA/SMC-StadiumBooking/internal/service/facilities/models"
)

type FacilityService interface {
	Update(ctx context.Context, id int64, req *models.UpdateFacilityRequest) (*models.FacilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
