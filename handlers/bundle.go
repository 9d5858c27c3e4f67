// File: barberbook/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Catalog endpoints
	GetServices       gin.HandlerFunc
	GetActiveCategory gin.HandlerFunc
	SetActiveCategory gin.HandlerFunc

	// Booking session endpoints
	InitiateSession    gin.HandlerFunc
	GetSession         gin.HandlerFunc
	CancelSession      gin.HandlerFunc
	SelectService      gin.HandlerFunc
	DeselectService    gin.HandlerFunc
	SetDate            gin.HandlerFunc
	SetBarber          gin.HandlerFunc
	SetCustomerDetails gin.HandlerFunc
	Next               gin.HandlerFunc
	Back               gin.HandlerFunc
	ResolveUpsell      gin.HandlerFunc
	DismissUpsell      gin.HandlerFunc
	ConfirmBooking     gin.HandlerFunc
	GetBooking         gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(bh *BookingHandler, ch *CatalogHandler) *HandlerBundle {
	return &HandlerBundle{
		GetServices:       ch.GetServices,
		GetActiveCategory: ch.GetActiveCategory,
		SetActiveCategory: ch.SetActiveCategory,

		InitiateSession:    bh.InitiateSession,
		GetSession:         bh.GetSession,
		CancelSession:      bh.CancelSession,
		SelectService:      bh.SelectService,
		DeselectService:    bh.DeselectService,
		SetDate:            bh.SetDate,
		SetBarber:          bh.SetBarber,
		SetCustomerDetails: bh.SetCustomerDetails,
		Next:               bh.Next,
		Back:               bh.Back,
		ResolveUpsell:      bh.ResolveUpsell,
		DismissUpsell:      bh.DismissUpsell,
		ConfirmBooking:     bh.ConfirmBooking,
		GetBooking:         bh.GetBooking,
	}
}
