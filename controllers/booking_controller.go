package controllers

import (
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"adventure-backend/middleware"
	"adventure-backend/models"
	"adventure-backend/services"
	"adventure-backend/utils"
)

const dateLayout = "2006-01-02"

// defaultRedirectPatterns admits local development frontends only; production
// domains come from ALLOWED_PAYMENT_REDIRECT_URLS.
var defaultRedirectPatterns = []string{
	`^https?://localhost(:\d+)?(/.*)?$`,
	`^https?://127\.0\.0\.1(:\d+)?(/.*)?$`,
}

type BookingController struct {
	Service *services.BookingService

	allowedRedirects []*regexp.Regexp
}

// NewBookingController compiles the payment redirect allow-list. Patterns are
// comma-separated regular expressions; a malformed pattern is skipped with a
// warning rather than silently admitting everything.
func NewBookingController(service *services.BookingService, rawPatterns string) *BookingController {
	patterns := defaultRedirectPatterns
	if trimmed := strings.TrimSpace(rawPatterns); trimmed != "" {
		patterns = strings.Split(trimmed, ",")
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			log.Printf("warning: skipping invalid redirect pattern %q: %v", p, err)
			continue
		}
		compiled = append(compiled, re)
	}
	return &BookingController{Service: service, allowedRedirects: compiled}
}

func (bc *BookingController) redirectAllowed(url string) bool {
	for _, re := range bc.allowedRedirects {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

type createBookingPayload struct {
	AdventureID uint   `json:"adventureId" binding:"required"`
	PackageID   uint   `json:"packageId" binding:"required"`
	GuideID     uint   `json:"guideId" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	NoOfPeople  int    `json:"noOfPeople" binding:"required,gte=1,lte=10"`
}

// CreateBooking handles POST /api/bookings.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	if startDate.Before(time.Now().Truncate(24 * time.Hour)) {
		utils.JSONError(c, http.StatusBadRequest, "startDate must not be in the past")
		return
	}

	booking, err := bc.Service.CreateBooking(c.Request.Context(), services.CreateBookingInput{
		CustomerID:  user.ID,
		AdventureID: payload.AdventureID,
		PackageID:   payload.PackageID,
		GuideID:     payload.GuideID,
		StartDate:   startDate,
		NoOfPeople:  payload.NoOfPeople,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetMyBookings handles GET /api/bookings.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	user := middleware.CurrentUser(c)

	bookings, err := bc.Service.GetBookingsByCustomer(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// GetBooking handles GET /api/bookings/:id. Customers only see their own
// bookings; admins see everything.
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type initiatePaymentPayload struct {
	Method      string `json:"method" binding:"required"`
	RedirectURL string `json:"redirectUrl" binding:"required,url"`
}

// InitiatePayment handles POST /api/bookings/:id/payment.
func (bc *BookingController) InitiatePayment(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}

	var payload initiatePaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !bc.redirectAllowed(payload.RedirectURL) {
		utils.JSONError(c, http.StatusBadRequest, utils.MsgInvalidRedirectURL)
		return
	}

	payment, err := bc.Service.InitiatePayment(c.Request.Context(), booking.ID, payload.Method, payload.RedirectURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// VerifyPayment handles POST /api/bookings/:id/payment/verify.
func (bc *BookingController) VerifyPayment(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}

	verified, err := bc.Service.VerifyPayment(c.Request.Context(), booking.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, verified)
}

// ownedBooking loads the :id booking and enforces that the caller owns it or
// is an admin. On failure the response is already written.
func (bc *BookingController) ownedBooking(c *gin.Context) (*models.Booking, bool) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return nil, false
	}

	booking, err := bc.Service.GetBookingByID(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if booking.CustomerID != user.ID && !user.HasRole(models.RoleAdmin, models.RoleSuperAdmin) {
		// Hide existence from other customers.
		utils.JSONError(c, http.StatusNotFound, utils.MsgObjectWithIDNotFound)
		return nil, false
	}
	return booking, true
}
