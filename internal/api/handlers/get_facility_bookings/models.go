package get_facility_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задает один день, startDate/endDate - диапазон включительно
func ToServiceRequest(facilityID, actorID int64, query url.Values) (*models.GetFacilityBookingsRequest, error) {
	req := &models.GetFacilityBookingsRequest{
		ActorID:    actorID,
		FacilityID: facilityID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if startStr := query.Get("startDate"); startStr != "" {
		start, err := domain.ParseDate(startStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}

	if endStr := query.Get("endDate"); endStr != "" {
		end, err := domain.ParseDate(endStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeStr := query.Get("includeCancelled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
