package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
)

var errInternal = errors.New("internal server error")

// respondServiceError maps service errors onto HTTP statuses. Anything that
// is not a known service error is logged and hidden behind a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondValidation(c, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		_ = c.Error(err)
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}

// paramID parses a positive numeric path parameter and answers 404 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("not found"))
		return 0, false
	}
	return uint(id), true
}
