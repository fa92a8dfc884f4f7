package repository

import (
	"database/sql"
	"errors"
	"fmt"

	mysqlerr "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adventure-backend/models"
	"adventure-backend/services"
)

// BookingStore is the gorm-backed services.BookingStore.
type BookingStore struct {
	DB *gorm.DB
}

func NewBookingStore(db *gorm.DB) *BookingStore {
	return &BookingStore{DB: db}
}

func (s *BookingStore) FindByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Payment").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingStore) FindByCustomer(customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.
		Preload("Payment").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return bookings, nil
}

// CreateIfGuideAvailable closes the check-then-insert race: the availability
// check and the insert run in one serializable transaction, with the guide's
// CONFIRMED rows read under a row lock. Two concurrent requests for
// overlapping dates serialize on those locks; the loser either sees the
// winner's row or deadlocks, and a deadlocked attempt is retried once before
// being reported as a conflict.
func (s *BookingStore) CreateIfGuideAvailable(b *models.Booking) error {
	for attempt := 0; attempt < 2; attempt++ {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			var confirmed []models.Booking
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("guide_id = ? AND status = ?", b.GuideID, models.BookingStatusConfirmed).
				Where("start_date < ? AND end_date > ?", b.EndDate, b.StartDate).
				Find(&confirmed).Error; err != nil {
				return fmt.Errorf("failed to load confirmed bookings: %w", err)
			}

			if !services.IsGuideAvailable(b.StartDate, b.EndDate, confirmed) {
				return services.ErrGuideNotAvailable
			}

			if err := tx.Create(b).Error; err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}
			return nil
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})

		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	// Lost the race twice against a competing reservation.
	return services.ErrGuideNotAvailable
}

// SavePaymentState writes the booking status and its payment row in a single
// transaction so no reader ever observes one without the other.
func (s *BookingStore) SavePaymentState(b *models.Booking) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("status", b.Status).Error; err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		if b.Payment == nil {
			return nil
		}
		b.Payment.BookingID = b.ID
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "booking_id"}},
				UpdateAll: true,
			}).
			Create(b.Payment).Error; err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		return nil
	})
}

// MySQL error numbers for lock wait timeout and deadlock.
func isRetryableTxError(err error) bool {
	var myErr *mysqlerr.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1205 || myErr.Number == 1213
	}
	return false
}
