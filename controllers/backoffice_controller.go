package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adventure-backend/services"
	"adventure-backend/utils"
)

type BackofficeController struct {
	Service *services.BackofficeService
	Users   *services.UserService
}

func NewBackofficeController(service *services.BackofficeService, users *services.UserService) *BackofficeController {
	return &BackofficeController{Service: service, Users: users}
}

// GetInteractions handles GET /api/backoffice/interactions. Admin only.
func (bc *BackofficeController) GetInteractions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	result, err := bc.Service.GetInteractions(page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// GetGuides handles GET /api/backoffice/guides. Admin only.
func (bc *BackofficeController) GetGuides(c *gin.Context) {
	guides, err := bc.Users.ListGuides()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guides)
}
