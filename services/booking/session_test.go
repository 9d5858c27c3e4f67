package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingsRepo "barberbook/database/repository/bookings"
	catalogRepo "barberbook/database/repository/catalog"
	"barberbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	categories []models.Category
	services   []models.Service
	offers     []models.UpsellOffer
	offersErr  error
}

func (f *fakeCatalog) ListCategories(_ context.Context, _ string) ([]models.Category, error) {
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeCatalog) ListServices(_ context.Context, _ string) ([]models.Service, error) {
	return append([]models.Service(nil), f.services...), nil
}

func (f *fakeCatalog) GetService(_ context.Context, _ string, id string) (*models.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalog) ListUpsellOffers(_ context.Context, _ string, mainIDs []string) ([]models.UpsellOffer, error) {
	if f.offersErr != nil {
		return nil, f.offersErr
	}
	var out []models.UpsellOffer
	for _, o := range f.offers {
		for _, id := range mainIDs {
			if o.MainServiceID == id {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

type fakeBookings struct {
	mu      sync.Mutex
	created []models.Booking
}

func (f *fakeBookings) Create(_ context.Context, b models.Booking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.created {
		if existing.BarberID == b.BarberID && existing.Date == b.Date && existing.TimeSlot == b.TimeSlot {
			return "", bookingsRepo.ErrSlotTaken
		}
	}
	f.created = append(f.created, b)
	return b.ID, nil
}

func (f *fakeBookings) ListByBarberAndDate(_ context.Context, shopID, barberID, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.created {
		if b.ShopID == shopID && b.BarberID == barberID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeReminders struct {
	scheduled []models.Booking
	err       error
}

func (f *fakeReminders) ScheduleReminder(_ context.Context, b models.Booking) error {
	f.scheduled = append(f.scheduled, b)
	return f.err
}

type echoTranslator struct{}

func (echoTranslator) T(_ models.Language, key string, _ ...any) string {
	return key
}

var testNow = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*DefaultBookingSessionService, *fakeCatalog, *fakeBookings, *fakeReminders) {
	catalog := &fakeCatalog{
		categories: []models.Category{
			{ID: "beard", NameEN: "Beard", DisplayOrder: 2},
			{ID: "hair", NameEN: "Hair", DisplayOrder: 1},
		},
		services: []models.Service{
			{ID: "trim", CategoryID: "beard", NameEN: "Beard trim", Price: dec("20"), Duration: 15, DisplayOrder: 2},
			{ID: "haircut", CategoryID: "hair", NameEN: "Haircut", Price: dec("50"), Duration: 30, DisplayOrder: 1},
			{ID: "wash", CategoryID: "hair", NameEN: "Wash", Price: dec("10"), Duration: 10, DisplayOrder: 2},
			{ID: "mask", CategoryID: "beard", NameEN: "Mask", Price: dec("30"), Duration: 20, DisplayOrder: 1},
			{ID: "wax", CategoryID: "beard", NameEN: "Wax", Price: dec("25"), Duration: 10, DisplayOrder: 3},
		},
		offers: []models.UpsellOffer{
			{ID: "o-wax", MainServiceID: "haircut", Service: models.Service{ID: "wax", NameEN: "Wax", Price: dec("25"), Duration: 10}, OfferPrice: dec("15")},
		},
	}
	bookings := &fakeBookings{}
	reminders := &fakeReminders{}
	svc := &DefaultBookingSessionService{
		Sessions:   NewMemorySessionStore(),
		Catalog:    catalog,
		Bookings:   bookings,
		Reminders:  reminders,
		Translator: echoTranslator{},
		Tiers:      testTiers(),
		Location:   time.UTC,
		Now:        func() time.Time { return testNow },
	}
	return svc, catalog, bookings, reminders
}

func flowCode(t *testing.T, err error) string {
	t.Helper()
	var fe *FlowError
	require.True(t, errors.As(err, &fe), "expected FlowError, got %v", err)
	return fe.Code
}

func TestGetCatalogGroupsInDisplayOrder(t *testing.T) {
	svc, _, _, _ := newTestService()
	grouped, err := svc.GetCatalog(context.Background(), "shop")
	require.NoError(t, err)

	require.Len(t, grouped, 2)
	assert.Equal(t, "hair", grouped[0].Category.ID)
	assert.Equal(t, []string{"haircut", "wash"}, []string{grouped[0].Services[0].ID, grouped[0].Services[1].ID})
	assert.Equal(t, "mask", grouped[1].Services[0].ID)
}

func TestSessionNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.CancelSession(context.Background(), "missing"), ErrSessionNotFound)
}

func TestSelectServiceBuildsPackage(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	s, err := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, models.StepServices, s.Flow.CurrentStep)

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "trim", MainServiceID: "haircut"})
	assert.Equal(t, CodeMissingPackageBase, flowCode(t, err))

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut", AsPackageBase: true})
	require.NoError(t, err)

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "wash", AsPackageBase: true})
	assert.Equal(t, CodePackageBaseExists, flowCode(t, err))

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut"})
	assert.Equal(t, CodeDuplicateService, flowCode(t, err))

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "nope"})
	assert.ErrorIs(t, err, catalogRepo.ErrServiceNotFound)

	for _, id := range []string{"trim", "wash", "mask"} {
		_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: id, MainServiceID: "haircut"})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, summary.Package)
	assert.True(t, summary.Package.DiscountPercentage.Equal(dec("25")))
	assert.True(t, summary.Package.TotalWithBase.Equal(dec("95")))
	assert.True(t, summary.Aggregate.TotalPrice.Equal(dec("95")))
	assert.Equal(t, 75, summary.Aggregate.TotalDuration)
	require.NotNil(t, summary.NextTier)
	assert.Nil(t, summary.NextTier.Tier)
	assert.Empty(t, summary.NextTierHint)
	assert.True(t, summary.CanAdvance)
	assert.False(t, summary.CanSubmit)

	// dropping an add-on falls back to the lower tier
	_, err = svc.DeselectService(ctx, s.SessionID, "mask")
	require.NoError(t, err)
	summary, err = svc.Summary(ctx, s.SessionID)
	require.NoError(t, err)
	assert.True(t, summary.Package.DiscountPercentage.Equal(dec("10")))
	assert.Equal(t, "package.next_tier", summary.NextTierHint)

	// dropping the base drops its add-ons
	s, err = svc.DeselectService(ctx, s.SessionID, "haircut")
	require.NoError(t, err)
	assert.Empty(t, s.Selected)

	_, err = svc.DeselectService(ctx, s.SessionID, "haircut")
	assert.Equal(t, CodeServiceNotSelected, flowCode(t, err))
}

func TestAdvanceInterceptsWithUpsellAndResolve(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	s, err := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	require.NoError(t, err)

	res, err := svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefused, res.Outcome)

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut"})
	require.NoError(t, err)

	res, err = svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIntercepted, res.Outcome)
	require.Len(t, res.Offers, 1)
	assert.Equal(t, "o-wax", res.Offers[0].ID)

	// the selection is frozen while the offer is open
	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "wash"})
	assert.Equal(t, CodeWrongStep, flowCode(t, err))

	tr, err := svc.ResolveUpsell(ctx, s.SessionID, []string{"o-wax"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, tr.Outcome)
	assert.Equal(t, models.StepDateTime, tr.Step)

	s, err = svc.GetSession(ctx, s.SessionID)
	require.NoError(t, err)
	require.Len(t, s.Selected, 2)
	assert.True(t, s.Selected[1].IsUpsellItem)
	assert.True(t, s.Selected[1].Price.Equal(dec("15")))

	_, err = svc.ResolveUpsell(ctx, s.SessionID, nil)
	assert.Equal(t, CodeNoPendingUpsell, flowCode(t, err))
}

func TestDismissUpsell(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	s, _ := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	_, err := svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut"})
	require.NoError(t, err)

	res, err := svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	require.Equal(t, OutcomeIntercepted, res.Outcome)

	tr, err := svc.DismissUpsell(ctx, s.SessionID, false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDismissed, tr.Outcome)
	assert.Equal(t, models.StepServices, tr.Step)

	res, err = svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Empty(t, res.Offers)
}

func TestAdvanceContinuesWhenOffersFail(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	catalog.offersErr = errors.New("mongo down")
	ctx := context.Background()
	s, _ := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	_, err := svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut"})
	require.NoError(t, err)

	res, err := svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
}

func TestSetDateAndBarber(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	s, _ := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)

	_, err := svc.SetDate(ctx, s.SessionID, "2026-11-02")
	assert.Equal(t, CodeWrongStep, flowCode(t, err))

	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "wash"})
	require.NoError(t, err)
	res, err := svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	require.Equal(t, OutcomeAdvanced, res.Outcome)

	_, err = svc.SetDate(ctx, s.SessionID, "02/11/2026")
	assert.Equal(t, CodeInvalidDate, flowCode(t, err))
	_, err = svc.SetDate(ctx, s.SessionID, "2026-10-31")
	assert.Equal(t, CodeInvalidDate, flowCode(t, err))

	_, err = svc.SetDate(ctx, s.SessionID, "2026-11-01")
	require.NoError(t, err, "today is allowed")
	_, err = svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)

	_, err = svc.SetBarber(ctx, s.SessionID, "b1", "25:00")
	assert.Equal(t, CodeInvalidTimeSlot, flowCode(t, err))

	s, err = svc.SetBarber(ctx, s.SessionID, "b1", "10:30")
	require.NoError(t, err)
	assert.Equal(t, "b1", s.BarberID)

	// changing the date clears the barber
	_, err = svc.GoBack(ctx, s.SessionID)
	require.NoError(t, err)
	s, err = svc.SetDate(ctx, s.SessionID, "2026-11-03")
	require.NoError(t, err)
	assert.Empty(t, s.BarberID)
	assert.Empty(t, s.TimeSlot)
}

// walkToDetails drives a fresh session to the details step with one service picked.
func walkToDetails(t *testing.T, svc *DefaultBookingSessionService, barber, slot string) string {
	t.Helper()
	ctx := context.Background()
	s, err := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	require.NoError(t, err)
	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut", AsPackageBase: true})
	require.NoError(t, err)
	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "trim", MainServiceID: "haircut"})
	require.NoError(t, err)

	res, err := svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	if res.Outcome == OutcomeIntercepted {
		_, err = svc.DismissUpsell(ctx, s.SessionID, true)
		require.NoError(t, err)
	}
	_, err = svc.SetDate(ctx, s.SessionID, "2026-11-02")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	_, err = svc.SetBarber(ctx, s.SessionID, barber, slot)
	require.NoError(t, err)
	res, err = svc.Advance(ctx, s.SessionID)
	require.NoError(t, err)
	require.Equal(t, models.StepDetails, res.Step)
	return s.SessionID
}

func TestConfirm(t *testing.T) {
	svc, _, bookings, reminders := newTestService()
	ctx := context.Background()
	id := walkToDetails(t, svc, "b1", "10:30")

	_, err := svc.Confirm(ctx, id)
	assert.Equal(t, CodeIncomplete, flowCode(t, err))

	_, err = svc.SetCustomerDetails(ctx, id, models.CustomerDetails{Name: "Sam", Phone: "0500000000"})
	require.NoError(t, err)

	b, err := svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, time.Date(2026, 11, 2, 10, 30, 0, 0, time.UTC), b.StartsAt)
	assert.Equal(t, 45, b.TotalDuration)
	assert.InDelta(t, 68.0, b.TotalPrice, 0.001)
	assert.InDelta(t, 2.0, b.Savings, 0.001)
	require.Len(t, b.Items, 2)
	assert.True(t, b.Items[0].IsBasePackageService)
	assert.InDelta(t, 20.0, b.Items[1].OriginalPrice, 0.001)

	assert.Len(t, bookings.created, 1)
	assert.Len(t, reminders.scheduled, 1)

	_, err = svc.GetSession(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirmSlotTaken(t *testing.T) {
	svc, _, _, reminders := newTestService()
	ctx := context.Background()

	first := walkToDetails(t, svc, "b1", "10:30")
	second := walkToDetails(t, svc, "b1", "10:30")
	for _, id := range []string{first, second} {
		_, err := svc.SetCustomerDetails(ctx, id, models.CustomerDetails{Name: "Sam", Phone: "0500000000"})
		require.NoError(t, err)
	}

	_, err := svc.Confirm(ctx, first)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, second)
	assert.Equal(t, CodeSlotTaken, flowCode(t, err))
	assert.Len(t, reminders.scheduled, 1)

	// the slot can no longer be picked either
	err = svc.checkSlotFree(ctx, "shop", "b1", "2026-11-02", "10:30")
	assert.Equal(t, CodeSlotTaken, flowCode(t, err))
	assert.NoError(t, svc.checkSlotFree(ctx, "shop", "b1", "2026-11-02", "11:00"))
}

func TestConfirmIgnoresReminderFailure(t *testing.T) {
	svc, _, bookings, reminders := newTestService()
	reminders.err = errors.New("queue down")
	ctx := context.Background()
	id := walkToDetails(t, svc, "b2", "11:00")
	_, err := svc.SetCustomerDetails(ctx, id, models.CustomerDetails{Name: "Sam", Phone: "0500000000"})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, id)
	require.NoError(t, err)
	assert.Len(t, bookings.created, 1)
}

func TestPackageSavingsMatchItemSavings(t *testing.T) {
	svc, catalog, _, _ := newTestService()
	for i := range catalog.services {
		if catalog.services[i].ID == "trim" {
			catalog.services[i].DiscountType = models.DiscountTypePercentage
			catalog.services[i].DiscountValue = dec("50")
		}
	}
	ctx := context.Background()
	s, err := svc.StartSession(ctx, "shop", "dev", models.LanguageEnglish)
	require.NoError(t, err)
	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "haircut", AsPackageBase: true})
	require.NoError(t, err)
	_, err = svc.SelectService(ctx, s.SessionID, SelectRequest{ServiceID: "trim", MainServiceID: "haircut"})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, summary.Package)

	itemSavings := dec("0")
	for _, item := range summary.Items {
		if item.OriginalPrice != nil {
			itemSavings = itemSavings.Add(item.OriginalPrice.Sub(item.Price))
		}
	}
	assert.True(t, summary.Package.OriginalTotal.Equal(dec("10")))
	assert.True(t, summary.Package.Savings.Equal(dec("1")))
	assert.True(t, itemSavings.Equal(summary.Package.Savings), "items %s package %s", itemSavings, summary.Package.Savings)
	assert.True(t, summary.Aggregate.TotalPrice.Equal(summary.Package.TotalWithBase))
}
