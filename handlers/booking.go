package handlers

import (
	"net/http"

	bookingsRepo "barberbook/database/repository/bookings"
	"barberbook/models"
	"barberbook/services/booking"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking session service over HTTP.
type BookingHandler struct {
	BookingSvc booking.BookingSessionService
	Bookings   bookingsRepo.BookingRepository
	Translator booking.Translator
	Logger     *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, bookings bookingsRepo.BookingRepository, translator booking.Translator, logger *zap.Logger) *BookingHandler {
	if translator == nil {
		translator = utils.StaticTranslator{}
	}
	return &BookingHandler{BookingSvc: svc, Bookings: bookings, Translator: translator, Logger: logger}
}

func requestLanguage(c *gin.Context) models.Language {
	return utils.MatchLanguage(c.Query("lang"), c.GetHeader("Accept-Language"))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", "invalid request body", err.Error())
		return false
	}
	return true
}

// respondSummary answers with the current summary of the session.
func (h *BookingHandler) respondSummary(c *gin.Context, op, sessionID string, status int) {
	summary, err := h.BookingSvc.Summary(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, op, err)
		return
	}
	c.JSON(status, summary)
}

// InitiateSession handles POST /api/booking/session.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		ShopID string `json:"shopId" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}

	session, err := h.BookingSvc.StartSession(c.Request.Context(), input.ShopID, c.GetString("deviceID"), requestLanguage(c))
	if err != nil {
		h.Logger.Error("InitiateSession: failed to start session", zap.String("shopID", input.ShopID), zap.Error(err))
		writeServiceError(c, "InitiateSession", err)
		return
	}
	h.respondSummary(c, "InitiateSession", session.SessionID, http.StatusCreated)
}

// GetSession handles GET /api/booking/session/:sessionID.
func (h *BookingHandler) GetSession(c *gin.Context) {
	h.respondSummary(c, "GetSession", c.Param("sessionID"), http.StatusOK)
}

// CancelSession handles DELETE /api/booking/session/:sessionID.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.BookingSvc.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		writeServiceError(c, "CancelSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectService handles POST /api/booking/session/:sessionID/services.
func (h *BookingHandler) SelectService(c *gin.Context) {
	var input struct {
		ServiceID     string `json:"serviceId" binding:"required"`
		AsPackageBase bool   `json:"asPackageBase"`
		MainServiceID string `json:"mainServiceId"`
	}
	if !bindJSON(c, &input) {
		return
	}

	sessionID := c.Param("sessionID")
	_, err := h.BookingSvc.SelectService(c.Request.Context(), sessionID, booking.SelectRequest{
		ServiceID:     input.ServiceID,
		AsPackageBase: input.AsPackageBase,
		MainServiceID: input.MainServiceID,
	})
	if err != nil {
		writeServiceError(c, "SelectService", err)
		return
	}
	h.respondSummary(c, "SelectService", sessionID, http.StatusOK)
}

// DeselectService handles DELETE /api/booking/session/:sessionID/services/:serviceID.
func (h *BookingHandler) DeselectService(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if _, err := h.BookingSvc.DeselectService(c.Request.Context(), sessionID, c.Param("serviceID")); err != nil {
		writeServiceError(c, "DeselectService", err)
		return
	}
	h.respondSummary(c, "DeselectService", sessionID, http.StatusOK)
}

// SetDate handles PUT /api/booking/session/:sessionID/datetime.
func (h *BookingHandler) SetDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	sessionID := c.Param("sessionID")
	if _, err := h.BookingSvc.SetDate(c.Request.Context(), sessionID, input.Date); err != nil {
		writeServiceError(c, "SetDate", err)
		return
	}
	h.respondSummary(c, "SetDate", sessionID, http.StatusOK)
}

// SetBarber handles PUT /api/booking/session/:sessionID/barber.
func (h *BookingHandler) SetBarber(c *gin.Context) {
	var input struct {
		BarberID string `json:"barberId" binding:"required"`
		TimeSlot string `json:"timeSlot" binding:"required"`
	}
	if !bindJSON(c, &input) {
		return
	}
	sessionID := c.Param("sessionID")
	if _, err := h.BookingSvc.SetBarber(c.Request.Context(), sessionID, input.BarberID, input.TimeSlot); err != nil {
		writeServiceError(c, "SetBarber", err)
		return
	}
	h.respondSummary(c, "SetBarber", sessionID, http.StatusOK)
}

// SetCustomerDetails handles PUT /api/booking/session/:sessionID/details.
func (h *BookingHandler) SetCustomerDetails(c *gin.Context) {
	var input models.CustomerDetails
	if !bindJSON(c, &input) {
		return
	}
	sessionID := c.Param("sessionID")
	if _, err := h.BookingSvc.SetCustomerDetails(c.Request.Context(), sessionID, input); err != nil {
		writeServiceError(c, "SetCustomerDetails", err)
		return
	}
	h.respondSummary(c, "SetCustomerDetails", sessionID, http.StatusOK)
}

// Next handles POST /api/booking/session/:sessionID/next. A refused transition is
// not an error; the outcome field says what happened.
func (h *BookingHandler) Next(c *gin.Context) {
	result, err := h.BookingSvc.Advance(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, "Next", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Back handles POST /api/booking/session/:sessionID/back.
func (h *BookingHandler) Back(c *gin.Context) {
	result, err := h.BookingSvc.GoBack(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, "Back", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResolveUpsell handles POST /api/booking/session/:sessionID/upsell/resolve.
func (h *BookingHandler) ResolveUpsell(c *gin.Context) {
	var input struct {
		AcceptedOfferIDs []string `json:"acceptedOfferIds"`
	}
	if !bindJSON(c, &input) {
		return
	}
	result, err := h.BookingSvc.ResolveUpsell(c.Request.Context(), c.Param("sessionID"), input.AcceptedOfferIDs)
	if err != nil {
		writeServiceError(c, "ResolveUpsell", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DismissUpsell handles POST /api/booking/session/:sessionID/upsell/dismiss.
func (h *BookingHandler) DismissUpsell(c *gin.Context) {
	var input struct {
		Proceed bool `json:"proceed"`
	}
	if !bindJSON(c, &input) {
		return
	}
	result, err := h.BookingSvc.DismissUpsell(c.Request.Context(), c.Param("sessionID"), input.Proceed)
	if err != nil {
		writeServiceError(c, "DismissUpsell", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmBooking handles POST /api/booking/session/:sessionID/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")
	b, err := h.BookingSvc.Confirm(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, "ConfirmBooking", err)
		return
	}
	h.Logger.Info("ConfirmBooking: booking confirmed", zap.String("sessionID", sessionID), zap.String("bookingID", b.ID))
	c.JSON(http.StatusCreated, gin.H{
		"booking": b,
		"message": h.Translator.T(b.Language, "booking.confirmed"),
	})
}

// GetBooking handles GET /api/booking/bookings/:bookingID.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Bookings.GetByID(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		writeServiceError(c, "GetBooking", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
