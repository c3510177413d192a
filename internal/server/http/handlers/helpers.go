package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated actor from context.
// The zero principal is returned when the request was not authenticated.
func CurrentPrincipal(c *gin.Context) model.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}
	}
	p, _ := val.(model.Principal)
	return p
}

// respondError maps domain failures onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal server error"

	var transition *domainErrors.TransitionError
	switch {
	case errors.As(err, &transition):
		status, message = http.StatusBadRequest, transition.Error()
	case errors.Is(err, domainErrors.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domainErrors.ErrInactiveAccount), errors.Is(err, domainErrors.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domainErrors.ErrValidation), errors.Is(err, domainErrors.ErrInvalidTransition):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, domainErrors.ErrConflict), errors.Is(err, domainErrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, dto.ErrorResponse{Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
