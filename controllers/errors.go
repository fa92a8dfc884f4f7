package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"adventure-backend/payments"
	"adventure-backend/services"
	"adventure-backend/utils"
)

// respondServiceError maps service sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body; the detail goes to the
// server log only.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, utils.MsgObjectWithIDNotFound)
	case errors.Is(err, services.ErrGuideNotAvailable):
		utils.JSONError(c, http.StatusConflict, utils.MsgGuideNotAvailable)
	case errors.Is(err, services.ErrBookingAlreadyProcessed):
		utils.JSONError(c, http.StatusConflict, utils.MsgBookingAlreadyProcessed)
	case errors.Is(err, services.ErrGuideAlreadyEnrolled):
		utils.JSONError(c, http.StatusConflict, utils.MsgGuideAlreadyEnrolled)
	case errors.Is(err, services.ErrAlreadyReviewed):
		utils.JSONError(c, http.StatusConflict, utils.MsgRequestAlreadyReviewed)
	case errors.Is(err, services.ErrUsernameTaken):
		utils.JSONError(c, http.StatusConflict, utils.MsgUsernameAlreadyExists)
	case errors.Is(err, services.ErrPaymentPending):
		utils.JSONError(c, http.StatusAccepted, utils.MsgPaymentPending)
	case errors.Is(err, services.ErrPaymentFailed):
		utils.JSONError(c, http.StatusUnprocessableEntity, utils.MsgPaymentFailed)
	case errors.Is(err, services.ErrInvalidPaymentType):
		utils.JSONError(c, http.StatusBadRequest, utils.MsgInvalidPaymentType)
	case errors.Is(err, services.ErrInvalidNoOfPeople):
		utils.JSONError(c, http.StatusBadRequest, utils.MsgInvalidNoOfPeople)
	case errors.Is(err, services.ErrInvalidPhoneNumber):
		utils.JSONError(c, http.StatusBadRequest, utils.MsgInvalidPhoneNumber)
	case errors.Is(err, services.ErrInvalidAuthMethod):
		utils.JSONError(c, http.StatusBadRequest, utils.MsgInvalidAuthMethod)
	case errors.Is(err, services.ErrInvalidOTP):
		utils.JSONError(c, http.StatusUnauthorized, utils.MsgInvalidOTP)
	case errors.Is(err, services.ErrInvalidJWTType):
		utils.JSONError(c, http.StatusUnauthorized, utils.MsgInvalidJWTType)
	case errors.Is(err, services.ErrCannotSendOTP):
		utils.JSONError(c, http.StatusServiceUnavailable, utils.MsgCannotSendOTP)
	case errors.Is(err, payments.ErrUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Payment gateway unavailable")
	default:
		log.Printf("internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}
