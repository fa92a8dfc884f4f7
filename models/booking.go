package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusNew       = "NEW"
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusCancelled = "CANCELLED"
	PaymentStatusExpired   = "EXPIRED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// PaymentMethodKhalti is the only supported payment method.
const PaymentMethodKhalti = "KHALTI"

// PackageSnapshot is the copy of the package's commercial terms taken at
// booking time. It never reflects later edits to the live package: the price
// and duration a customer agreed to must not change underneath an in-flight
// payment.
type PackageSnapshot struct {
	AdventureTitle string  `gorm:"column:adventure_title;size:64" json:"adventureTitle"`
	Title          string  `gorm:"column:title;size:64" json:"title"`
	Price          float64 `gorm:"column:price" json:"price"`
	Description    string  `gorm:"column:description;size:1024" json:"description"`
	Duration       int     `gorm:"column:duration" json:"duration"`
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`

	AdventureID uint `gorm:"column:adventure_id;index" json:"adventureId"`
	PackageID   uint `gorm:"column:package_id" json:"packageId"`
	GuideID     uint `gorm:"column:guide_id;index" json:"guideId"`
	CustomerID  uint `gorm:"column:customer_id;index" json:"customerId"`

	Package PackageSnapshot `gorm:"embedded;embeddedPrefix:package_" json:"package"`

	StartDate time.Time `gorm:"column:start_date" json:"startDate"`
	// EndDate = StartDate + Package.Duration days, computed once at creation
	// and stored, never recomputed.
	EndDate time.Time `gorm:"column:end_date" json:"endDate"`

	NoOfPeople int    `gorm:"column:no_of_people" json:"noOfPeople"`
	Status     string `gorm:"column:status;size:16;index" json:"status"`

	Payment *Payment `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
}

// Processed reports whether the booking is in a terminal state with respect
// to payment operations.
func (b *Booking) Processed() bool {
	switch b.Status {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Payment is the record of one attempt to collect funds through the gateway.
// One row per booking; a re-initiation after expiry overwrites it.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	BookingID uint `gorm:"column:booking_id;uniqueIndex" json:"-"`

	// Amount is in minor currency units (paisa), fixed at first initiation.
	Amount int64  `gorm:"column:amount" json:"amount"`
	Method string `gorm:"column:method;size:16" json:"method"`

	Pidx       string    `gorm:"column:pidx;size:64;index" json:"pidx"`
	PaymentURL string    `gorm:"column:payment_url" json:"paymentUrl"`
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expiresAt"`

	Status string `gorm:"column:status;size:16" json:"status"`
}

// Expired reports whether the stored payment link can no longer be used by
// the customer.
func (p *Payment) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}
