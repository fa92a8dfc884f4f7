package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adventure-backend/middleware"
	"adventure-backend/models"
	"adventure-backend/services"
	"adventure-backend/utils"
)

type GuideRequestController struct {
	Service    *services.GuideRequestService
	Backoffice *services.BackofficeService
}

func NewGuideRequestController(service *services.GuideRequestService, backoffice *services.BackofficeService) *GuideRequestController {
	return &GuideRequestController{Service: service, Backoffice: backoffice}
}

// Create handles POST /api/guide-requests. Works with or without a session;
// a logged-in applicant is linked so approval can promote them.
func (gc *GuideRequestController) Create(c *gin.Context) {
	var payload services.GuideRequestInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	var userID *uint
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	request, err := gc.Service.Create(userID, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, request)
}

// ListPending handles GET /api/guide-requests. Admin only.
func (gc *GuideRequestController) ListPending(c *gin.Context) {
	requests, err := gc.Service.ListPending()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, requests)
}

// Approve handles POST /api/guide-requests/:id/approve. Admin only.
func (gc *GuideRequestController) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := gc.Service.Approve(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	gc.logReview(c, id, models.GuideRequestStatusApproved)
	utils.JSONSuccess(c, http.StatusOK, request)
}

// Reject handles POST /api/guide-requests/:id/reject. Admin only.
func (gc *GuideRequestController) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := gc.Service.Reject(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	gc.logReview(c, id, models.GuideRequestStatusRejected)
	utils.JSONSuccess(c, http.StatusOK, request)
}

func (gc *GuideRequestController) logReview(c *gin.Context, id uint, outcome string) {
	if gc.Backoffice == nil {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return
	}
	gc.Backoffice.LogInteraction(user.ID, models.ActionUpdate, models.ResourceGuideRequest,
		strconv.FormatUint(uint64(id), 10), gin.H{"status": outcome})
}
