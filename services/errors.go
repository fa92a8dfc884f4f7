package services

import (
	"errors"

	"adventure-backend/utils"
)

// Sentinel errors returned by services. Controllers map these onto HTTP
// statuses; anything not listed here is an internal error.
var (
	ErrNotFound                = errors.New(utils.MsgObjectWithIDNotFound)
	ErrGuideNotAvailable       = errors.New(utils.MsgGuideNotAvailable)
	ErrBookingAlreadyProcessed = errors.New(utils.MsgBookingAlreadyProcessed)
	ErrPaymentPending          = errors.New(utils.MsgPaymentPending)
	ErrPaymentFailed           = errors.New(utils.MsgPaymentFailed)
	ErrInvalidPaymentType      = errors.New(utils.MsgInvalidPaymentType)
	ErrInvalidNoOfPeople       = errors.New(utils.MsgInvalidNoOfPeople)

	ErrInvalidPhoneNumber = errors.New(utils.MsgInvalidPhoneNumber)
	ErrInvalidAuthMethod  = errors.New(utils.MsgInvalidAuthMethod)
	ErrInvalidOTP         = errors.New(utils.MsgInvalidOTP)
	ErrCannotSendOTP      = errors.New(utils.MsgCannotSendOTP)
	ErrInvalidJWTType     = errors.New(utils.MsgInvalidJWTType)

	ErrUsernameTaken        = errors.New(utils.MsgUsernameAlreadyExists)
	ErrGuideAlreadyEnrolled = errors.New(utils.MsgGuideAlreadyEnrolled)
	ErrAlreadyReviewed      = errors.New(utils.MsgRequestAlreadyReviewed)
)
