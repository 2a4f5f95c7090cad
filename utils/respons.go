package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondValidation writes a 400 with per-field messages when err came from
// request binding, and the plain error message otherwise.
func RespondValidation(c *gin.Context, err error) {
	fields := ValidationMessages(err)
	message := err.Error()
	if len(fields) > 0 {
		message = "invalid request"
	}
	c.JSON(400, JSONResponse{
		Status:  false,
		Message: message,
		Errors:  fields,
	})
}
