package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/service"
)

// HandleServiceError maps service-layer sentinel errors onto HTTP statuses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed), errors.Is(err, service.ErrSlugTaken):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoomNotFound), errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidShareCode):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotRoomAdmin):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAdminCannotLeave), errors.Is(err, service.ErrInvalidPayload):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
