package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the uniform envelope for all API responses.
type JSONResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Error      interface{} `json:"error"`
	Timestamp  string      `json:"timestamp"`
	StatusCode int         `json:"statusCode"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}, errMsg interface{}) {
	ctx.JSON(status, JSONResponse{
		Success:    errMsg == nil,
		Data:       data,
		Error:      errMsg,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: status,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, data, nil)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, message string) {
	Respond(ctx, status, nil, message)
}
