package booking

import (
	"context"
	"time"

	"barberbook/models"

	"go.uber.org/zap"
)

// BookingSessionService drives a customer's booking session from service selection
// to submission.
type BookingSessionService interface {
	GetCatalog(ctx context.Context, shopID string) ([]models.CategoryServices, error)
	StartSession(ctx context.Context, shopID, deviceID string, lang models.Language) (*models.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	SelectService(ctx context.Context, sessionID string, req SelectRequest) (*models.BookingSession, error)
	DeselectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error)
	SetDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error)
	SetBarber(ctx context.Context, sessionID, barberID, timeSlot string) (*models.BookingSession, error)
	SetCustomerDetails(ctx context.Context, sessionID string, details models.CustomerDetails) (*models.BookingSession, error)
	Advance(ctx context.Context, sessionID string) (*AdvanceResult, error)
	GoBack(ctx context.Context, sessionID string) (*TransitionResult, error)
	ResolveUpsell(ctx context.Context, sessionID string, acceptedOfferIDs []string) (*TransitionResult, error)
	DismissUpsell(ctx context.Context, sessionID string, proceed bool) (*TransitionResult, error)
	Summary(ctx context.Context, sessionID string) (*SessionSummary, error)
	Confirm(ctx context.Context, sessionID string) (*models.Booking, error)
}

// ReminderScheduler queues a reminder for a submitted booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b models.Booking) error
}

// Translator is the localization collaborator.
type Translator interface {
	T(lang models.Language, key string, args ...any) string
}

// DefaultBookingSessionService implements BookingSessionService.
type DefaultBookingSessionService struct {
	Sessions   SessionStore
	Catalog    CatalogReader
	Bookings   BookingStore
	Reminders  ReminderScheduler
	Translator Translator
	Tiers      []models.DiscountTier
	Location   *time.Location
	Logger     *zap.Logger
	Now        func() time.Time
}

// CatalogReader is the read side of the catalog the booking flow depends on.
type CatalogReader interface {
	ListCategories(ctx context.Context, shopID string) ([]models.Category, error)
	ListServices(ctx context.Context, shopID string) ([]models.Service, error)
	GetService(ctx context.Context, shopID, serviceID string) (*models.Service, error)
	ListUpsellOffers(ctx context.Context, shopID string, mainServiceIDs []string) ([]models.UpsellOffer, error)
}

// BookingStore persists submitted bookings.
type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (string, error)
	ListByBarberAndDate(ctx context.Context, shopID, barberID, date string) ([]models.Booking, error)
}
