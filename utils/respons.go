package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
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

// RespondServiceError picks the status code from the error's category.
// Internal failures are logged and hidden behind a generic message.
func RespondServiceError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code >= 500 {
		ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("request failed: %+v", err)
		c.JSON(code, JSONResponse{Status: false, Message: "internal server error"})
		return
	}
	RespondError(c, code, err)
}
