package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	bookingsRepo "barberbook/database/repository/bookings"
	"barberbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout     = "2006-01-02"
	timeSlotLayout = "15:04"
)

// SelectRequest adds one catalog service to the selection. AsPackageBase makes it the
// anchor of a package; MainServiceID attaches it to the selected package base as an
// add-on. With neither set it is a plain selection.
type SelectRequest struct {
	ServiceID     string `json:"serviceId"`
	AsPackageBase bool   `json:"asPackageBase"`
	MainServiceID string `json:"mainServiceId"`
}

// AdvanceResult is a transition result plus the offers to show when it was intercepted.
type AdvanceResult struct {
	TransitionResult
	Offers []models.UpsellOffer `json:"offers,omitempty"`
}

// SessionSummary is everything a client needs to render the current session.
type SessionSummary struct {
	Session      *models.BookingSession     `json:"session"`
	Items        []DisplayItem              `json:"items"`
	Aggregate    Aggregate                  `json:"aggregate"`
	Package      *models.PackageCalculation `json:"package,omitempty"`
	NextTier     *models.NextTier           `json:"nextTier,omitempty"`
	NextTierHint string                     `json:"nextTierHint,omitempty"`
	CanAdvance   bool                       `json:"canAdvance"`
	CanSubmit    bool                       `json:"canSubmit"`
}

func (s *DefaultBookingSessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingSessionService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultBookingSessionService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// GetCatalog groups the shop's services by category, both in display order.
func (s *DefaultBookingSessionService) GetCatalog(ctx context.Context, shopID string) ([]models.CategoryServices, error) {
	categories, err := s.Catalog.ListCategories(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	services, err := s.Catalog.ListServices(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].DisplayOrder < categories[j].DisplayOrder
	})
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].DisplayOrder < services[j].DisplayOrder
	})

	byCategory := make(map[string][]models.Service, len(categories))
	for _, svc := range services {
		byCategory[svc.CategoryID] = append(byCategory[svc.CategoryID], svc)
	}

	grouped := make([]models.CategoryServices, 0, len(categories))
	for _, c := range categories {
		grouped = append(grouped, models.CategoryServices{
			Category: c,
			Services: byCategory[c.ID],
		})
	}
	return grouped, nil
}

// StartSession opens a new session on the services step.
func (s *DefaultBookingSessionService) StartSession(ctx context.Context, shopID, deviceID string, lang models.Language) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID: uuid.New().String(),
		ShopID:    shopID,
		DeviceID:  deviceID,
		Language:  lang,
		Selected:  []models.SelectedService{},
		Flow:      models.NewFlowState(),
		CreatedAt: s.now(),
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.logger().Error("StartSession: failed to store session", zap.String("shopID", shopID), zap.Error(err))
		return nil, err
	}
	s.logger().Info("StartSession: session started", zap.String("sessionID", session.SessionID), zap.String("shopID", shopID))
	return session, nil
}

func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.Sessions.Load(ctx, sessionID)
}

func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if _, err := s.Sessions.Load(ctx, sessionID); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// update loads a session, applies fn and stores the result when fn succeeds.
func (s *DefaultBookingSessionService) update(ctx context.Context, sessionID string, fn func(*models.BookingSession) error) (*models.BookingSession, error) {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		s.logger().Error("failed to store session", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	return session, nil
}

func requireStep(session *models.BookingSession, step models.BookingStep) error {
	if session.Flow.CurrentStep != step {
		return NewFlowError(CodeWrongStep, fmt.Sprintf("session is on step %q, not %q", session.Flow.CurrentStep, step))
	}
	if session.Flow.ShowUpsellModal {
		return NewFlowError(CodeWrongStep, "an upsell offer is waiting for an answer")
	}
	return nil
}

func (s *DefaultBookingSessionService) reprice(session *models.BookingSession) error {
	selected, _, err := ApplyPackagePricing(session.Selected, s.Tiers)
	if err != nil {
		return err
	}
	session.Selected = selected
	return nil
}

// SelectService adds a service to the selection and re-prices the package.
func (s *DefaultBookingSessionService) SelectService(ctx context.Context, sessionID string, req SelectRequest) (*models.BookingSession, error) {
	return s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if err := requireStep(session, models.StepServices); err != nil {
			return err
		}
		if req.AsPackageBase && req.MainServiceID != "" {
			return NewFlowError(CodeMissingPackageBase, "a package base cannot be an add-on")
		}
		if slices.ContainsFunc(session.Selected, func(sel models.SelectedService) bool {
			return sel.Service.ID == req.ServiceID
		}) {
			return NewFlowError(CodeDuplicateService, fmt.Sprintf("service %s is already selected", req.ServiceID))
		}

		base, _ := PackageAddOns(session.Selected)
		if req.AsPackageBase && base != nil {
			return NewFlowError(CodePackageBaseExists, fmt.Sprintf("package base %s is already selected", base.Service.ID))
		}
		if req.MainServiceID != "" && (base == nil || base.Service.ID != req.MainServiceID) {
			return NewFlowError(CodeMissingPackageBase, fmt.Sprintf("package base %s is not selected", req.MainServiceID))
		}

		svc, err := s.Catalog.GetService(ctx, session.ShopID, req.ServiceID)
		if err != nil {
			return err
		}

		session.Selected = append(session.Selected, NewSelection(*svc, SelectOptions{
			AsPackageBase: req.AsPackageBase,
			MainServiceID: req.MainServiceID,
		}))
		return s.reprice(session)
	})
}

// DeselectService removes a service together with the add-ons and upsell items
// attached to it.
func (s *DefaultBookingSessionService) DeselectService(ctx context.Context, sessionID, serviceID string) (*models.BookingSession, error) {
	return s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if err := requireStep(session, models.StepServices); err != nil {
			return err
		}
		idx := slices.IndexFunc(session.Selected, func(sel models.SelectedService) bool {
			return sel.Service.ID == serviceID
		})
		if idx < 0 {
			return NewFlowError(CodeServiceNotSelected, fmt.Sprintf("service %s is not selected", serviceID))
		}
		session.Selected = slices.DeleteFunc(session.Selected, func(sel models.SelectedService) bool {
			return sel.Service.ID == serviceID || sel.MainServiceID == serviceID
		})
		return s.reprice(session)
	})
}

// SetDate records the chosen day. A new date drops the barber and slot picked for
// the previous one.
func (s *DefaultBookingSessionService) SetDate(ctx context.Context, sessionID, date string) (*models.BookingSession, error) {
	return s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if err := requireStep(session, models.StepDateTime); err != nil {
			return err
		}
		day, err := time.ParseInLocation(dateLayout, date, s.location())
		if err != nil {
			return NewFlowError(CodeInvalidDate, fmt.Sprintf("date %q is not YYYY-MM-DD", date))
		}
		now := s.now().In(s.location())
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location())
		if day.Before(today) {
			return NewFlowError(CodeInvalidDate, fmt.Sprintf("date %s is in the past", date))
		}
		if session.Date != date {
			session.BarberID = ""
			session.TimeSlot = ""
		}
		session.Date = date
		return nil
	})
}

func (s *DefaultBookingSessionService) SetBarber(ctx context.Context, sessionID, barberID, timeSlot string) (*models.BookingSession, error) {
	return s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if err := requireStep(session, models.StepBarber); err != nil {
			return err
		}
		if _, err := time.Parse(timeSlotLayout, timeSlot); err != nil {
			return NewFlowError(CodeInvalidTimeSlot, fmt.Sprintf("time slot %q is not HH:MM", timeSlot))
		}
		if err := s.checkSlotFree(ctx, session.ShopID, barberID, session.Date, timeSlot); err != nil {
			return err
		}
		session.BarberID = barberID
		session.TimeSlot = timeSlot
		return nil
	})
}

// checkSlotFree refuses a barber and slot that an existing booking already holds.
func (s *DefaultBookingSessionService) checkSlotFree(ctx context.Context, shopID, barberID, date, timeSlot string) error {
	existing, err := s.Bookings.ListByBarberAndDate(ctx, shopID, barberID, date)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}
	for _, b := range existing {
		if b.TimeSlot == timeSlot {
			return NewFlowError(CodeSlotTaken, fmt.Sprintf("barber %s is already booked on %s at %s", barberID, date, timeSlot))
		}
	}
	return nil
}

func (s *DefaultBookingSessionService) SetCustomerDetails(ctx context.Context, sessionID string, details models.CustomerDetails) (*models.BookingSession, error) {
	return s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if err := requireStep(session, models.StepDetails); err != nil {
			return err
		}
		session.Customer = details
		return nil
	})
}

// mainServiceIDs lists the selected services that can carry upsell offers.
func mainServiceIDs(selected []models.SelectedService) []string {
	ids := make([]string, 0, len(selected))
	for _, sel := range selected {
		if !sel.IsUpsellItem {
			ids = append(ids, sel.Service.ID)
		}
	}
	return ids
}

// upsellOffers fetches the offers for the current selection, minus those whose
// service is already selected.
func (s *DefaultBookingSessionService) upsellOffers(ctx context.Context, session *models.BookingSession) ([]models.UpsellOffer, error) {
	ids := mainServiceIDs(session.Selected)
	if len(ids) == 0 {
		return nil, nil
	}
	offers, err := s.Catalog.ListUpsellOffers(ctx, session.ShopID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list upsell offers: %w", err)
	}
	return slices.DeleteFunc(offers, func(o models.UpsellOffer) bool {
		return slices.ContainsFunc(session.Selected, func(sel models.SelectedService) bool {
			return sel.Service.ID == o.Service.ID
		})
	}), nil
}

// Advance moves the session to its next step. Offers are only fetched when the next
// step is the one upsells are shown in front of.
func (s *DefaultBookingSessionService) Advance(ctx context.Context, sessionID string) (*AdvanceResult, error) {
	var result AdvanceResult
	_, err := s.update(ctx, sessionID, func(session *models.BookingSession) error {
		flow := RestoreFlow(session.Flow)

		var offers []models.UpsellOffer
		if next, ok := flow.Current().Next(); ok && next == models.StepDateTime && CanAdvance(flow.Current(), ContextFromSession(session)) {
			var err error
			if offers, err = s.upsellOffers(ctx, session); err != nil {
				// Offers are optional; move on without them.
				s.logger().Warn("Advance: upsell offers unavailable", zap.String("sessionID", sessionID), zap.Error(err))
				offers = nil
			}
		}

		result.TransitionResult = flow.Next(ContextFromSession(session), offers)
		if result.Outcome == OutcomeIntercepted {
			result.Offers = offers
		}
		session.Flow = flow.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Debug("Advance", zap.String("sessionID", sessionID), zap.String("outcome", string(result.Outcome)), zap.String("step", string(result.Step)))
	return &result, nil
}

func (s *DefaultBookingSessionService) GoBack(ctx context.Context, sessionID string) (*TransitionResult, error) {
	var result TransitionResult
	_, err := s.update(ctx, sessionID, func(session *models.BookingSession) error {
		flow := RestoreFlow(session.Flow)
		result = flow.Back()
		session.Flow = flow.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ResolveUpsell adds the accepted offers to the selection and completes the
// transition the offer interrupted.
func (s *DefaultBookingSessionService) ResolveUpsell(ctx context.Context, sessionID string, acceptedOfferIDs []string) (*TransitionResult, error) {
	var result TransitionResult
	_, err := s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if !session.Flow.ShowUpsellModal {
			return NewFlowError(CodeNoPendingUpsell, "no upsell offer is waiting for an answer")
		}
		if len(acceptedOfferIDs) > 0 {
			offers, err := s.upsellOffers(ctx, session)
			if err != nil {
				return err
			}
			for _, o := range offers {
				if slices.Contains(acceptedOfferIDs, o.ID) {
					session.Selected = append(session.Selected, NewUpsellSelection(o))
				}
			}
		}
		flow := RestoreFlow(session.Flow)
		result = flow.CompleteUpsell()
		session.Flow = flow.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DismissUpsell closes the offer without adding anything. With proceed the deferred
// transition still happens.
func (s *DefaultBookingSessionService) DismissUpsell(ctx context.Context, sessionID string, proceed bool) (*TransitionResult, error) {
	var result TransitionResult
	_, err := s.update(ctx, sessionID, func(session *models.BookingSession) error {
		if !session.Flow.ShowUpsellModal {
			return NewFlowError(CodeNoPendingUpsell, "no upsell offer is waiting for an answer")
		}
		flow := RestoreFlow(session.Flow)
		if proceed {
			result = flow.CompleteUpsell()
		} else {
			result = flow.CancelUpsell()
		}
		session.Flow = flow.State()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *DefaultBookingSessionService) summarize(session *models.BookingSession) (*SessionSummary, error) {
	flow := RestoreFlow(session.Flow)
	bctx := ContextFromSession(session)
	summary := &SessionSummary{
		Session:    session,
		Items:      Project(session.Selected, session.Language),
		Aggregate:  ComputeAggregate(session.Selected),
		CanAdvance: CanAdvance(flow.Current(), bctx),
		CanSubmit:  flow.CanSubmit(bctx),
	}

	base, addOns := PackageAddOns(session.Selected)
	if base == nil {
		return summary, nil
	}
	calc, err := Evaluate(s.Tiers, base.Service, addOns)
	if err != nil {
		return nil, err
	}
	summary.Package = &calc

	next := NextTierInfo(s.Tiers, len(addOns))
	summary.NextTier = &next
	if next.Tier != nil && s.Translator != nil {
		summary.NextTierHint = s.Translator.T(session.Language, "package.next_tier", next.ServicesNeeded, next.Tier.Percentage.String())
	}
	return summary, nil
}

func (s *DefaultBookingSessionService) Summary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.summarize(session)
}

// Confirm submits a completed session: the booking is stored, a reminder is queued
// and the session is removed.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, sessionID string) (*models.Booking, error) {
	session, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	flow := RestoreFlow(session.Flow)
	if !flow.CanSubmit(ContextFromSession(session)) {
		return nil, NewFlowError(CodeIncomplete, "booking details are incomplete")
	}

	startsAt, err := time.ParseInLocation(dateLayout+" "+timeSlotLayout, session.Date+" "+session.TimeSlot, s.location())
	if err != nil {
		return nil, NewFlowError(CodeInvalidTimeSlot, fmt.Sprintf("cannot schedule %s %s", session.Date, session.TimeSlot))
	}

	agg := ComputeAggregate(session.Selected)
	b := models.Booking{
		ID:            uuid.New().String(),
		ShopID:        session.ShopID,
		SessionID:     session.SessionID,
		BarberID:      session.BarberID,
		Date:          session.Date,
		TimeSlot:      session.TimeSlot,
		StartsAt:      startsAt,
		Customer:      session.Customer,
		TotalDuration: agg.TotalDuration,
		TotalPrice:    agg.TotalPrice.InexactFloat64(),
		Language:      session.Language,
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     s.now(),
	}
	for _, sel := range session.Selected {
		item := models.BookingItem{
			ServiceID:            sel.Service.ID,
			Name:                 sel.Service.Name(session.Language),
			Duration:             sel.Service.Duration,
			Price:                sel.Price.InexactFloat64(),
			IsBasePackageService: sel.IsBasePackageService,
			IsPackageAddOn:       sel.IsPackageAddOn,
			IsUpsellItem:         sel.IsUpsellItem,
		}
		if sel.IsDiscounted() {
			item.OriginalPrice = sel.OriginalPrice.InexactFloat64()
			b.Savings += sel.OriginalPrice.Sub(sel.Price).InexactFloat64()
		}
		b.Items = append(b.Items, item)
	}

	id, err := s.Bookings.Create(ctx, b)
	if errors.Is(err, bookingsRepo.ErrSlotTaken) {
		return nil, NewFlowError(CodeSlotTaken, fmt.Sprintf("barber %s is already booked on %s at %s", b.BarberID, b.Date, b.TimeSlot))
	}
	if err != nil {
		s.logger().Error("Confirm: failed to store booking", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, fmt.Errorf("failed to store booking: %w", err)
	}
	b.ID = id

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, b); err != nil {
			s.logger().Warn("Confirm: failed to schedule reminder", zap.String("bookingID", b.ID), zap.Error(err))
		}
	}

	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		s.logger().Warn("Confirm: failed to clear session", zap.String("sessionID", sessionID), zap.Error(err))
	}

	s.logger().Info("Confirm: booking stored", zap.String("bookingID", b.ID), zap.String("shopID", b.ShopID))
	return &b, nil
}
