package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError memetakan taksonomi error service ke HTTP:
// ValidationError -> 400, ConflictError -> 409, not found -> 404, sisanya
// (error data store tak terklasifikasi) -> 500 dan boleh di-retry pemanggil.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &conflictErr):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
