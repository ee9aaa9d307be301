package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gdugdh24/spark-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// DeviceHeader identifies the client device a session state belongs to.
const DeviceHeader = "X-Device-ID"

const defaultDeviceID = "default"

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// errorStatus maps domain errors onto HTTP status codes
var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrInvalidStep, http.StatusBadRequest},
	{domain.ErrTooManyPhotos, http.StatusUnprocessableEntity},
	{domain.ErrPhotoIndexOutOfRange, http.StatusBadRequest},
	{domain.ErrEmptyPhoto, http.StatusBadRequest},
	{domain.ErrAgeAdjustmentRejected, http.StatusUnprocessableEntity},
	{domain.ErrOnboardingIncomplete, http.StatusUnprocessableEntity},
	{domain.ErrMissingIdentity, http.StatusBadRequest},
	{domain.ErrProfileNotFound, http.StatusNotFound},
	{domain.ErrProfileAlreadyExists, http.StatusConflict},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrUserAlreadyExists, http.StatusConflict},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrSessionNotFound, http.StatusUnauthorized},
	{domain.ErrSessionExpired, http.StatusUnauthorized},
	{domain.ErrCannotSwipeSelf, http.StatusBadRequest},
	{domain.ErrSwipeAlreadyExists, http.StatusConflict},
	{domain.ErrNothingToRewind, http.StatusConflict},
	{domain.ErrRewindMatched, http.StatusConflict},
	{domain.ErrInvalidDirection, http.StatusBadRequest},
	{domain.ErrMatchNotFound, http.StatusNotFound},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error using its domain status. Unknown errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
		message = fallback
	}
	c.JSON(status, ErrorResponse{Error: message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}

func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return id, true
}

func deviceID(c *gin.Context) string {
	if id := c.GetHeader(DeviceHeader); id != "" {
		return id
	}
	return defaultDeviceID
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return v, true
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}
