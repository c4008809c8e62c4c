// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shackcart/backoffice/internal/services"
	"github.com/shackcart/backoffice/internal/utils"
)

// respondServiceError translates the service error taxonomy into HTTP
// responses: validation 400, absence 404, uniqueness 409, collaborator 502.
func respondServiceError(c *gin.Context, resource string, err error) {
	var ve *services.ValidationError
	var ce *services.ConflictError
	var coe *services.CollaboratorError

	switch {
	case errors.As(err, &ve):
		utils.BadRequestResponse(c, ve.Message, ve.Fields)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.As(err, &ce):
		utils.ConflictResponse(c, ce.Error())
	case errors.As(err, &coe):
		utils.ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_ERROR", coe.Error(), nil)
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}
