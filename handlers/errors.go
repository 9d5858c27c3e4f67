package handlers

import (
	"errors"
	"net/http"

	bookingsRepo "barberbook/database/repository/bookings"
	catalogRepo "barberbook/database/repository/catalog"
	"barberbook/services/booking"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
)

// flowErrorStatus maps flow error codes onto HTTP statuses.
var flowErrorStatus = map[string]int{
	booking.CodeWrongStep:          http.StatusConflict,
	booking.CodeDuplicateService:   http.StatusConflict,
	booking.CodeServiceNotSelected: http.StatusNotFound,
	booking.CodePackageBaseExists:  http.StatusConflict,
	booking.CodeMissingPackageBase: http.StatusUnprocessableEntity,
	booking.CodeInvalidDate:        http.StatusBadRequest,
	booking.CodeInvalidTimeSlot:    http.StatusBadRequest,
	booking.CodeIncomplete:         http.StatusUnprocessableEntity,
	booking.CodeNoPendingUpsell:    http.StatusConflict,
	booking.CodeSlotTaken:          http.StatusConflict,
}

// writeServiceError turns a service error into a JSON error response.
func writeServiceError(c *gin.Context, op string, err error) {
	var flowErr *booking.FlowError
	switch {
	case errors.As(err, &flowErr):
		status, ok := flowErrorStatus[flowErr.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, flowErr.Code, flowErr.Message, op)
	case errors.Is(err, booking.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "sessionNotFound", err.Error(), op)
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		utils.JSONError(c, http.StatusNotFound, "serviceNotFound", err.Error(), op)
	case errors.Is(err, bookingsRepo.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "bookingNotFound", err.Error(), op)
	case errors.Is(err, booking.ErrInvalidTierTable):
		utils.JSONError(c, http.StatusInternalServerError, "invalidTierTable", "discount configuration is invalid", op)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal", "request failed", op+": "+err.Error())
	}
}
