package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"adventure-backend/events"
	"adventure-backend/models"
	"adventure-backend/payments"
)

// BookingStore is the persistence boundary for bookings. The gorm
// implementation lives in the repository package; tests substitute an
// in-memory one.
type BookingStore interface {
	// FindByID returns the booking with its payment sub-record, or
	// ErrNotFound.
	FindByID(id uint) (*models.Booking, error)
	FindByCustomer(customerID uint) ([]models.Booking, error)
	// CreateIfGuideAvailable atomically re-checks the guide's CONFIRMED
	// bookings and inserts, returning ErrGuideNotAvailable on a clash. The
	// check and the insert must not be separable by a concurrent request.
	CreateIfGuideAvailable(b *models.Booking) error
	// SavePaymentState persists the booking status and its payment record in
	// a single atomic operation.
	SavePaymentState(b *models.Booking) error
}

// AdventureCatalog resolves the (adventure, package, guide) association
// triple. Read-only from the engine's point of view.
type AdventureCatalog interface {
	FindWithPackageAndGuide(adventureID, packageID, guideID uint) (*models.Adventure, error)
}

// EventPublisher emits best-effort domain events. May be nil.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BookingService drives a booking from creation through payment to a
// terminal state.
type BookingService struct {
	Store   BookingStore
	Catalog AdventureCatalog
	Gateway payments.Gateway
	Events  EventPublisher

	now func() time.Time
}

func NewBookingService(store BookingStore, catalog AdventureCatalog, gateway payments.Gateway, events EventPublisher) *BookingService {
	return &BookingService{
		Store:   store,
		Catalog: catalog,
		Gateway: gateway,
		Events:  events,
		now:     time.Now,
	}
}

type CreateBookingInput struct {
	CustomerID  uint
	AdventureID uint
	PackageID   uint
	GuideID     uint
	StartDate   time.Time
	NoOfPeople  int
}

// CreateBooking reserves a guide for the package's date range. The new
// booking embeds a snapshot of the package's commercial terms and starts in
// status NEW; it does not block the guide's calendar until payment confirms.
// maxNoOfPeople caps the party size a single guide can take.
const maxNoOfPeople = 10

func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if in.NoOfPeople < 1 || in.NoOfPeople > maxNoOfPeople {
		return nil, ErrInvalidNoOfPeople
	}

	adventure, err := s.Catalog.FindWithPackageAndGuide(in.AdventureID, in.PackageID, in.GuideID)
	if err != nil {
		return nil, err
	}

	pkg := adventure.PackageByID(in.PackageID)
	if pkg == nil {
		return nil, ErrNotFound
	}

	// The one place the live package is read. Everything after this works
	// off the snapshot.
	endDate := in.StartDate.AddDate(0, 0, pkg.Duration)

	booking := &models.Booking{
		ReferenceCode: uuid.NewString(),
		AdventureID:   in.AdventureID,
		PackageID:     in.PackageID,
		GuideID:       in.GuideID,
		CustomerID:    in.CustomerID,
		Package: models.PackageSnapshot{
			AdventureTitle: adventure.Title,
			Title:          pkg.Title,
			Price:          pkg.Price,
			Description:    pkg.Description,
			Duration:       pkg.Duration,
		},
		StartDate:  in.StartDate,
		EndDate:    endDate,
		NoOfPeople: in.NoOfPeople,
		Status:     models.BookingStatusNew,
	}

	if err := s.Store.CreateIfGuideAvailable(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// InitiatePayment requests a payment link from the gateway for a NEW booking,
// or returns the stored link unchanged while it is still valid. A fresh
// charge is only requested when there is no usable link, so retried client
// requests never produce duplicate charges.
func (s *BookingService) InitiatePayment(ctx context.Context, bookingID uint, method, redirectURL string) (*models.Payment, error) {
	if method != models.PaymentMethodKhalti {
		return nil, ErrInvalidPaymentType
	}

	booking, err := s.Store.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Processed() {
		return nil, ErrBookingAlreadyProcessed
	}

	now := s.now()
	if booking.Status == models.BookingStatusPending &&
		booking.Payment != nil && !booking.Payment.Expired(now) {
		return booking.Payment, nil
	}

	// The amount is fixed at first initiation; a renewal after link expiry
	// keeps it even if someone edits the live package meanwhile.
	amount := payments.ToMinorUnits(booking.Package.Price)
	if booking.Payment != nil {
		amount = booking.Payment.Amount
	}

	resp, err := s.Gateway.Initiate(ctx, payments.InitiateRequest{
		Amount:            amount,
		PurchaseOrderID:   booking.ReferenceCode,
		PurchaseOrderName: booking.Package.AdventureTitle + " - " + booking.Package.Title,
		RedirectURL:       redirectURL,
	})
	if err != nil {
		return nil, err
	}

	if booking.Payment == nil {
		booking.Payment = &models.Payment{BookingID: booking.ID}
	}
	booking.Payment.Amount = amount
	booking.Payment.Method = method
	booking.Payment.Pidx = resp.Pidx
	booking.Payment.PaymentURL = resp.PaymentURL
	booking.Payment.ExpiresAt = resp.ExpiresAt
	booking.Payment.Status = models.PaymentStatusPending
	booking.Status = models.BookingStatusPending

	if err := s.Store.SavePaymentState(booking); err != nil {
		return nil, err
	}
	return booking.Payment, nil
}

// VerifyPayment asks the gateway how the charge resolved and moves the
// booking to its terminal state. A still-pending charge mutates nothing and
// surfaces ErrPaymentPending so the caller can poll again; a transport
// failure mutates nothing either, so retrying is always safe.
func (s *BookingService) VerifyPayment(ctx context.Context, bookingID uint) (*models.Booking, error) {
	booking, err := s.Store.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending || booking.Payment == nil {
		return nil, ErrBookingAlreadyProcessed
	}

	res, err := s.Gateway.Lookup(ctx, booking.Payment.Pidx)
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case payments.StatusCompleted:
		booking.Payment.Status = models.PaymentStatusCompleted
		booking.Status = models.BookingStatusConfirmed
		if err := s.Store.SavePaymentState(booking); err != nil {
			return nil, err
		}
		s.publish(ctx, events.KeyBookingConfirmed, booking)
		return booking, nil

	case payments.StatusPending, payments.StatusInitiated:
		return nil, ErrPaymentPending

	default:
		// Expired, user-canceled, refunded at provider, or anything Khalti
		// adds later: treat as failure rather than guessing.
		booking.Payment.Status = models.PaymentStatusFailed
		booking.Status = models.BookingStatusCancelled
		if err := s.Store.SavePaymentState(booking); err != nil {
			return nil, err
		}
		s.publish(ctx, events.KeyBookingCancelled, booking)
		return nil, ErrPaymentFailed
	}
}

func (s *BookingService) GetBookingsByCustomer(customerID uint) ([]models.Booking, error) {
	return s.Store.FindByCustomer(customerID)
}

func (s *BookingService) GetBookingByID(id uint) (*models.Booking, error) {
	return s.Store.FindByID(id)
}

func (s *BookingService) publish(ctx context.Context, key string, b *models.Booking) {
	if s.Events == nil {
		return
	}
	err := s.Events.PublishJSON(ctx, key, map[string]any{
		"booking_id":     b.ID,
		"reference_code": b.ReferenceCode,
		"guide_id":       b.GuideID,
		"customer_id":    b.CustomerID,
		"start_date":     b.StartDate,
		"end_date":       b.EndDate,
	})
	if err != nil {
		log.Printf("warning: failed to publish %s for booking %d: %v", key, b.ID, err)
	}
}
