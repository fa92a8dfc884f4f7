package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"adventure-backend/middleware"
	"adventure-backend/models"
	"adventure-backend/services"
	"adventure-backend/utils"
)

type AdventureController struct {
	Service    *services.AdventureService
	Backoffice *services.BackofficeService
}

func NewAdventureController(service *services.AdventureService, backoffice *services.BackofficeService) *AdventureController {
	return &AdventureController{Service: service, Backoffice: backoffice}
}

// GetAdventures handles GET /api/adventures. Public.
func (ac *AdventureController) GetAdventures(c *gin.Context) {
	adventures, err := ac.Service.GetAdventures(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, adventures)
}

// GetAdventure handles GET /api/adventures/:id. Public.
func (ac *AdventureController) GetAdventure(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	adventure, err := ac.Service.GetAdventureByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, adventure)
}

// CreateAdventure handles POST /api/adventures. Admin only.
func (ac *AdventureController) CreateAdventure(c *gin.Context) {
	var payload services.AdventureInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	adventure, err := ac.Service.CreateAdventure(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionCreate, models.ResourceAdventure, adventure.ID, payload)
	utils.JSONSuccess(c, http.StatusCreated, adventure)
}

// UpdateAdventure handles PUT /api/adventures/:id. Admin only.
func (ac *AdventureController) UpdateAdventure(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	var payload services.AdventureInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	adventure, err := ac.Service.UpdateAdventure(c.Request.Context(), id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionUpdate, models.ResourceAdventure, id, payload)
	utils.JSONSuccess(c, http.StatusOK, adventure)
}

// DeleteAdventure handles DELETE /api/adventures/:id. Admin only.
func (ac *AdventureController) DeleteAdventure(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	if err := ac.Service.DeleteAdventure(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionDelete, models.ResourceAdventure, id, nil)
	c.Status(http.StatusNoContent)
}

// EnrollSelf handles POST /api/adventures/:id/guides. Guides enroll
// themselves.
func (ac *AdventureController) EnrollSelf(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	if err := ac.Service.EnrollGuide(c.Request.Context(), id, user); err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionEnroll, models.ResourceAdventure, id, nil)
	c.Status(http.StatusNoContent)
}

// UnenrollSelf handles DELETE /api/adventures/:id/guides.
func (ac *AdventureController) UnenrollSelf(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	if err := ac.Service.UnenrollGuide(c.Request.Context(), id, user); err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionUnenroll, models.ResourceAdventure, id, nil)
	c.Status(http.StatusNoContent)
}

// AvailableGuides handles GET /api/adventures/:id/guides/available. The
// candidate window comes from startDate plus the package's duration.
func (ac *AdventureController) AvailableGuides(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	startDate, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	packageID, err := strconv.ParseUint(c.Query("packageId"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid packageId")
		return
	}

	adventure, err := ac.Service.GetAdventureByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pkg := adventure.PackageByID(uint(packageID))
	if pkg == nil {
		utils.JSONError(c, http.StatusNotFound, utils.MsgObjectWithIDNotFound)
		return
	}

	guides, err := ac.Service.AvailableGuides(id, startDate, startDate.AddDate(0, 0, pkg.Duration))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guides)
}

// CreatePackage handles POST /api/adventures/:id/packages. Admin only.
func (ac *AdventureController) CreatePackage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}

	var payload services.PackageInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	pkg, err := ac.Service.CreatePackage(c.Request.Context(), id, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionCreate, models.ResourcePackage, pkg.ID, payload)
	utils.JSONSuccess(c, http.StatusCreated, pkg)
}

// UpdatePackage handles PUT /api/adventures/:id/packages/:packageId.
func (ac *AdventureController) UpdatePackage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}
	packageID, ok := paramID(c, "packageId")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid package id")
		return
	}

	var payload services.PackageInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	pkg, err := ac.Service.UpdatePackage(c.Request.Context(), id, packageID, payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionUpdate, models.ResourcePackage, packageID, payload)
	utils.JSONSuccess(c, http.StatusOK, pkg)
}

// DeletePackage handles DELETE /api/adventures/:id/packages/:packageId.
func (ac *AdventureController) DeletePackage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid adventure id")
		return
	}
	packageID, ok := paramID(c, "packageId")
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid package id")
		return
	}

	if err := ac.Service.DeletePackage(c.Request.Context(), id, packageID); err != nil {
		respondServiceError(c, err)
		return
	}

	ac.logInteraction(c, models.ActionDelete, models.ResourcePackage, packageID, nil)
	c.Status(http.StatusNoContent)
}

func (ac *AdventureController) logInteraction(c *gin.Context, action, resource string, resourceID uint, data any) {
	if ac.Backoffice == nil {
		return
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return
	}
	ac.Backoffice.LogInteraction(user.ID, action, resource, strconv.FormatUint(uint64(resourceID), 10), data)
}
