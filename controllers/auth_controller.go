package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adventure-backend/services"
	"adventure-backend/utils"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

type requestOTPPayload struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// RequestOTP handles POST /api/auth/otp.
func (ac *AuthController) RequestOTP(c *gin.Context) {
	var payload requestOTPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	expiresAt, err := ac.Service.RequestOTP(c.Request.Context(), payload.PhoneNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"message":   utils.MsgOTPSent,
		"expiresAt": expiresAt,
	})
}

type loginPayload struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Method      string `json:"method" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	access, refresh, user, err := ac.Service.Login(payload.PhoneNumber, payload.Method, payload.OTP)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh handles POST /api/auth/refresh.
func (ac *AuthController) Refresh(c *gin.Context) {
	var payload refreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	access, err := ac.Service.Refresh(payload.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"accessToken": access})
}
