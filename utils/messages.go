package utils

// User-facing message vocabulary, shared between services and controllers.
const (
	MsgOTPSent = "OTP sent successfully"

	MsgCannotSendOTP           = "Cannot send OTP"
	MsgInvalidPhoneNumber      = "Invalid phone number"
	MsgInvalidAuthMethod       = "Invalid auth method"
	MsgInvalidOTP              = "Invalid OTP"
	MsgInvalidJWTType          = "Invalid JWT type"
	MsgObjectWithIDNotFound    = "Object with ID not found"
	MsgUserForJWTNotFound      = "User associated with JWT not found"
	MsgForbidden               = "Forbidden"
	MsgUsernameAlreadyExists   = "Username is already taken"
	MsgGuideAlreadyEnrolled    = "Guide already enrolled"
	MsgRequestAlreadyReviewed  = "Request already reviewed"
	MsgGuideNotAvailable       = "Guide not available"
	MsgBookingAlreadyProcessed = "Booking already processed"
	MsgInvalidPaymentType      = "Invalid payment type"
	MsgInvalidRedirectURL      = "Invalid redirect URL"
	MsgInvalidNoOfPeople       = "Number of people must be between 1 and 10"
	MsgPaymentPending          = "Payment is pending"
	MsgPaymentFailed           = "Payment failed"
	MsgFileSizeTooLarge        = "File size too large"
)
