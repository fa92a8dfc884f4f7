package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adventure-backend/middleware"
	"adventure-backend/services"
	"adventure-backend/utils"
)

type ProfileController struct {
	Service *services.UserService
}

func NewProfileController(service *services.UserService) *ProfileController {
	return &ProfileController{Service: service}
}

// GetMe handles GET /api/profile.
func (pc *ProfileController) GetMe(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, middleware.CurrentUser(c))
}

// UpdateMe handles PATCH /api/profile.
func (pc *ProfileController) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var payload services.UpdateProfileInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := pc.Service.UpdateProfile(user.ID, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// GetByUsername handles GET /api/profiles/:username. Public guide pages.
func (pc *ProfileController) GetByUsername(c *gin.Context) {
	user, err := pc.Service.GetUserByUsername(c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
