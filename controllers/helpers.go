package controllers

import (
	"errors"
	"net/http"

	"pawperfection/apperrors"

	"github.com/gin-gonic/gin"
)

// respond writes the response envelope every endpoint uses.
func respond(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, gin.H{
		"msg":     msg,
		"success": status < http.StatusBadRequest,
		"data":    data,
	})
}

// respondError maps service errors onto HTTP responses. Unknown errors
// become an opaque 500; the detail only reaches clients in development.
func respondError(c *gin.Context, err error, devMode bool) {
	var dup *apperrors.DuplicatePurchaseError
	if errors.As(err, &dup) {
		respond(c, http.StatusBadRequest, "You have already purchased this training program", gin.H{
			"paymentId": dup.PaymentID,
		})
		return
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError && devMode && appErr.Err != nil {
			respond(c, appErr.Code, appErr.Message, gin.H{"error": appErr.Err.Error()})
			return
		}
		respond(c, appErr.Code, appErr.Message, nil)
		return
	}

	if devMode {
		respond(c, http.StatusInternalServerError, "Internal server error", gin.H{"error": err.Error()})
		return
	}
	respond(c, http.StatusInternalServerError, "Internal server error", nil)
}
