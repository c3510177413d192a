package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

// AdminHandler exposes account management to administrators.
type AdminHandler struct {
	facade AdminFacade
}

func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.facade.Users(c.Request.Context(), CurrentPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// User handles GET /api/admin/users/:id.
func (h *AdminHandler) User(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "user not found"})
		return
	}
	user, err := h.facade.User(c.Request.Context(), CurrentPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// SetActive handles PUT /api/admin/users/:id/active.
func (h *AdminHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "user not found"})
		return
	}
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		badRequest(c, "active flag is required")
		return
	}

	user, err := h.facade.SetUserActive(c.Request.Context(), CurrentPrincipal(c), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
