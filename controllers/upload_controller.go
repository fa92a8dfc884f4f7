package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"adventure-backend/services"
	"adventure-backend/utils"
)

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// UploadImage handles POST /api/uploads/images. Admin only; the stored path
// comes back for use in adventure payloads.
func (uc *UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "image file is required")
		return
	}

	path, err := services.SaveImage(c, file, "images")
	if err != nil {
		if errors.Is(err, services.ErrFileTooLarge) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, utils.MsgFileSizeTooLarge)
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"url": path})
}
