package utils

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of a successful write.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorBody carries either a plain message or a list of field errors under "detail".
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}

func Message(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

func ErrorResponse(c *gin.Context, code int, detail string) {
	c.JSON(code, ErrorBody{Detail: detail})
}
