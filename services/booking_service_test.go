package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventure-backend/events"
	"adventure-backend/models"
	"adventure-backend/payments"
)

type stubStore struct {
	bookings  map[uint]*models.Booking
	nextID    uint
	createErr error
	saves     int
}

func newStubStore() *stubStore {
	return &stubStore{bookings: map[uint]*models.Booking{}, nextID: 1}
}

func (s *stubStore) FindByID(id uint) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *stubStore) FindByCustomer(customerID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubStore) CreateIfGuideAvailable(b *models.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	var existing []models.Booking
	for _, e := range s.bookings {
		if e.GuideID == b.GuideID {
			existing = append(existing, *e)
		}
	}
	if !IsGuideAvailable(b.StartDate, b.EndDate, existing) {
		return ErrGuideNotAvailable
	}
	b.ID = s.nextID
	s.nextID++
	s.bookings[b.ID] = b
	return nil
}

func (s *stubStore) SavePaymentState(b *models.Booking) error {
	s.saves++
	s.bookings[b.ID] = b
	return nil
}

type stubGateway struct {
	initiateResp  payments.InitiateResponse
	initiateErr   error
	initiateCalls int
	lastInitiate  payments.InitiateRequest

	lookupResp payments.LookupResponse
	lookupErr  error
}

func (g *stubGateway) Initiate(_ context.Context, req payments.InitiateRequest) (payments.InitiateResponse, error) {
	g.initiateCalls++
	g.lastInitiate = req
	if g.initiateErr != nil {
		return payments.InitiateResponse{}, g.initiateErr
	}
	return g.initiateResp, nil
}

func (g *stubGateway) Lookup(_ context.Context, _ string) (payments.LookupResponse, error) {
	if g.lookupErr != nil {
		return payments.LookupResponse{}, g.lookupErr
	}
	return g.lookupResp, nil
}

type stubCatalog struct {
	adventure *models.Adventure
}

func (c *stubCatalog) FindWithPackageAndGuide(adventureID, packageID, guideID uint) (*models.Adventure, error) {
	if c.adventure == nil || c.adventure.ID != adventureID {
		return nil, ErrNotFound
	}
	if c.adventure.PackageByID(packageID) == nil || !c.adventure.HasGuide(guideID) {
		return nil, ErrNotFound
	}
	return c.adventure, nil
}

type stubPublisher struct {
	keys []string
}

func (p *stubPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return nil
}

func testAdventure() *models.Adventure {
	return &models.Adventure{
		ID:    1,
		Title: "Everest Base Camp Trek",
		Packages: []models.Package{
			{ID: 2, AdventureID: 1, Title: "Classic 5 Day", Price: 1000, Description: "Lukla to EBC", Duration: 5},
		},
		Guides: []models.User{{ID: 7}},
	}
}

func newTestService(store *stubStore, gateway *stubGateway, pub *stubPublisher) *BookingService {
	svc := NewBookingService(store, &stubCatalog{adventure: testAdventure()}, gateway, pub)
	svc.now = func() time.Time { return day(1) }
	return svc
}

func createInput() CreateBookingInput {
	return CreateBookingInput{
		CustomerID:  42,
		AdventureID: 1,
		PackageID:   2,
		GuideID:     7,
		StartDate:   day(1),
		NoOfPeople:  2,
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates NEW booking with snapshot and computed end date", func(t *testing.T) {
		store := newStubStore()
		svc := newTestService(store, &stubGateway{}, nil)

		booking, err := svc.CreateBooking(ctx, createInput())
		require.NoError(t, err)

		assert.Equal(t, models.BookingStatusNew, booking.Status)
		assert.NotEmpty(t, booking.ReferenceCode)
		assert.Equal(t, day(6), booking.EndDate)
		assert.Equal(t, "Everest Base Camp Trek", booking.Package.AdventureTitle)
		assert.Equal(t, "Classic 5 Day", booking.Package.Title)
		assert.Equal(t, float64(1000), booking.Package.Price)
		assert.Equal(t, 5, booking.Package.Duration)
	})

	t.Run("party size is bounded", func(t *testing.T) {
		store := newStubStore()
		svc := newTestService(store, &stubGateway{}, nil)

		for _, n := range []int{0, -1, 11, 50} {
			in := createInput()
			in.NoOfPeople = n
			_, err := svc.CreateBooking(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidNoOfPeople, n)
		}
		assert.Empty(t, store.bookings)

		in := createInput()
		in.NoOfPeople = 10
		_, err := svc.CreateBooking(ctx, in)
		assert.NoError(t, err)
	})

	t.Run("unknown package is not found", func(t *testing.T) {
		svc := newTestService(newStubStore(), &stubGateway{}, nil)

		in := createInput()
		in.PackageID = 99
		_, err := svc.CreateBooking(ctx, in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("guide not enrolled is not found", func(t *testing.T) {
		svc := newTestService(newStubStore(), &stubGateway{}, nil)

		in := createInput()
		in.GuideID = 99
		_, err := svc.CreateBooking(ctx, in)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("guide conflict surfaces as ErrGuideNotAvailable", func(t *testing.T) {
		store := newStubStore()
		store.createErr = ErrGuideNotAvailable
		svc := newTestService(store, &stubGateway{}, nil)

		_, err := svc.CreateBooking(ctx, createInput())
		assert.ErrorIs(t, err, ErrGuideNotAvailable)
	})
}

func TestInitiatePayment(t *testing.T) {
	ctx := context.Background()

	link := payments.InitiateResponse{
		Pidx:       "pidx-1",
		PaymentURL: "https://pay.khalti.com/?pidx=pidx-1",
		ExpiresAt:  day(1).Add(30 * time.Minute),
	}

	newBooking := func(t *testing.T, store *stubStore, svc *BookingService) *models.Booking {
		t.Helper()
		booking, err := svc.CreateBooking(ctx, createInput())
		require.NoError(t, err)
		return booking
	}

	t.Run("requests link and moves booking to PENDING", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		svc := newTestService(store, gateway, nil)
		booking := newBooking(t, store, svc)

		payment, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)

		// 1000 rupees in paisa.
		assert.Equal(t, int64(100000), payment.Amount)
		assert.Equal(t, int64(100000), gateway.lastInitiate.Amount)
		assert.Equal(t, booking.ReferenceCode, gateway.lastInitiate.PurchaseOrderID)
		assert.Equal(t, "Everest Base Camp Trek - Classic 5 Day", gateway.lastInitiate.PurchaseOrderName)
		assert.Equal(t, "pidx-1", payment.Pidx)
		assert.Equal(t, models.PaymentStatusPending, payment.Status)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("rejects unsupported method", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		svc := newTestService(store, gateway, nil)
		booking := newBooking(t, store, svc)

		_, err := svc.InitiatePayment(ctx, booking.ID, "ESEWA", "https://localhost/return")
		assert.ErrorIs(t, err, ErrInvalidPaymentType)
		assert.Zero(t, gateway.initiateCalls)
	})

	t.Run("rejects processed booking", func(t *testing.T) {
		store := newStubStore()
		svc := newTestService(store, &stubGateway{initiateResp: link}, nil)
		booking := newBooking(t, store, svc)
		booking.Status = models.BookingStatusConfirmed

		_, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		assert.ErrorIs(t, err, ErrBookingAlreadyProcessed)
	})

	t.Run("returns stored link while it is valid", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		svc := newTestService(store, gateway, nil)
		booking := newBooking(t, store, svc)

		first, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)
		second, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)

		assert.Equal(t, first.Pidx, second.Pidx)
		assert.Equal(t, 1, gateway.initiateCalls)
	})

	t.Run("expired link gets a fresh pidx at the original amount", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		svc := newTestService(store, gateway, nil)
		booking := newBooking(t, store, svc)

		_, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)

		// Link expires; someone doubles the live package price meanwhile.
		booking.Payment.ExpiresAt = day(1).Add(-time.Minute)
		booking.Package.Price = 2000
		gateway.initiateResp.Pidx = "pidx-2"

		payment, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)

		assert.Equal(t, "pidx-2", payment.Pidx)
		assert.Equal(t, int64(100000), payment.Amount)
		assert.Equal(t, int64(100000), gateway.lastInitiate.Amount)
		assert.Equal(t, 2, gateway.initiateCalls)
	})

	t.Run("gateway failure leaves the booking untouched", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateErr: payments.ErrUnavailable}
		svc := newTestService(store, gateway, nil)
		booking := newBooking(t, store, svc)

		_, err := svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		assert.ErrorIs(t, err, payments.ErrUnavailable)
		assert.Equal(t, models.BookingStatusNew, booking.Status)
		assert.Zero(t, store.saves)
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	pendingBooking := func(t *testing.T, store *stubStore, svc *BookingService) *models.Booking {
		t.Helper()
		booking, err := svc.CreateBooking(ctx, createInput())
		require.NoError(t, err)
		_, err = svc.InitiatePayment(ctx, booking.ID, models.PaymentMethodKhalti, "https://localhost/return")
		require.NoError(t, err)
		return booking
	}

	link := payments.InitiateResponse{
		Pidx:       "pidx-1",
		PaymentURL: "https://pay.khalti.com/?pidx=pidx-1",
		ExpiresAt:  day(1).Add(30 * time.Minute),
	}

	t.Run("completed charge confirms the booking", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		pub := &stubPublisher{}
		svc := newTestService(store, gateway, pub)
		booking := pendingBooking(t, store, svc)

		gateway.lookupResp = payments.LookupResponse{Pidx: "pidx-1", Status: payments.StatusCompleted, TotalAmount: 100000}

		verified, err := svc.VerifyPayment(ctx, booking.ID)
		require.NoError(t, err)

		assert.Equal(t, models.BookingStatusConfirmed, verified.Status)
		assert.Equal(t, models.PaymentStatusCompleted, verified.Payment.Status)
		assert.Equal(t, []string{events.KeyBookingConfirmed}, pub.keys)
	})

	t.Run("still pending charge mutates nothing", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		pub := &stubPublisher{}
		svc := newTestService(store, gateway, pub)
		booking := pendingBooking(t, store, svc)
		savesBefore := store.saves

		for _, status := range []string{payments.StatusPending, payments.StatusInitiated} {
			gateway.lookupResp = payments.LookupResponse{Pidx: "pidx-1", Status: status}

			_, err := svc.VerifyPayment(ctx, booking.ID)
			assert.ErrorIs(t, err, ErrPaymentPending, status)
			assert.Equal(t, models.BookingStatusPending, booking.Status)
		}
		assert.Equal(t, savesBefore, store.saves)
		assert.Empty(t, pub.keys)
	})

	t.Run("terminal and unrecognized statuses cancel the booking", func(t *testing.T) {
		for _, status := range []string{
			payments.StatusExpired,
			payments.StatusCanceled,
			payments.StatusRefunded,
			"Partially Refunded",
		} {
			store := newStubStore()
			gateway := &stubGateway{initiateResp: link}
			pub := &stubPublisher{}
			svc := newTestService(store, gateway, pub)
			booking := pendingBooking(t, store, svc)

			gateway.lookupResp = payments.LookupResponse{Pidx: "pidx-1", Status: status}

			_, err := svc.VerifyPayment(ctx, booking.ID)
			assert.ErrorIs(t, err, ErrPaymentFailed, status)
			assert.Equal(t, models.BookingStatusCancelled, booking.Status, status)
			assert.Equal(t, models.PaymentStatusFailed, booking.Payment.Status, status)
			assert.Equal(t, []string{events.KeyBookingCancelled}, pub.keys, status)
		}
	})

	t.Run("rejects booking without a pending payment", func(t *testing.T) {
		store := newStubStore()
		svc := newTestService(store, &stubGateway{initiateResp: link}, nil)
		booking, err := svc.CreateBooking(ctx, createInput())
		require.NoError(t, err)

		_, err = svc.VerifyPayment(ctx, booking.ID)
		assert.ErrorIs(t, err, ErrBookingAlreadyProcessed)
	})

	t.Run("gateway failure mutates nothing", func(t *testing.T) {
		store := newStubStore()
		gateway := &stubGateway{initiateResp: link}
		svc := newTestService(store, gateway, nil)
		booking := pendingBooking(t, store, svc)
		savesBefore := store.saves

		gateway.lookupErr = payments.ErrUnavailable

		_, err := svc.VerifyPayment(ctx, booking.ID)
		assert.ErrorIs(t, err, payments.ErrUnavailable)
		assert.Equal(t, models.BookingStatusPending, booking.Status)
		assert.Equal(t, savesBefore, store.saves)
	})
}

// Full lifecycle: pay a booking through to CONFIRMED, then check what that
// does to the guide's calendar for later requests.
func TestConfirmedBookingBlocksOverlappingCreate(t *testing.T) {
	ctx := context.Background()

	store := newStubStore()
	gateway := &stubGateway{
		initiateResp: payments.InitiateResponse{
			Pidx:       "pidx-1",
			PaymentURL: "https://pay.khalti.com/?pidx=pidx-1",
			ExpiresAt:  day(1).Add(30 * time.Minute),
		},
	}
	svc := newTestService(store, gateway, &stubPublisher{})

	first, err := svc.CreateBooking(ctx, createInput())
	require.NoError(t, err)
	_, err = svc.InitiatePayment(ctx, first.ID, models.PaymentMethodKhalti, "https://localhost/return")
	require.NoError(t, err)

	gateway.lookupResp = payments.LookupResponse{Pidx: "pidx-1", Status: payments.StatusCompleted, TotalAmount: 100000}
	confirmed, err := svc.VerifyPayment(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	// Jan 1-6 is now taken; Jan 3-8 for the same guide must lose.
	overlapping := createInput()
	overlapping.CustomerID = 43
	overlapping.StartDate = day(3)
	_, err = svc.CreateBooking(ctx, overlapping)
	assert.ErrorIs(t, err, ErrGuideNotAvailable)

	// A back-to-back trip starting on the handover day still fits.
	adjacent := createInput()
	adjacent.CustomerID = 43
	adjacent.StartDate = day(6)
	booking, err := svc.CreateBooking(ctx, adjacent)
	require.NoError(t, err)
	assert.Equal(t, day(11), booking.EndDate)
}
