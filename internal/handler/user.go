package handler

import (
	"net/http"

	"blogd/internal/middleware"
	"blogd/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler interface {
	Me(c *gin.Context)
}

type userHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) UserHandler {
	return &userHandler{logger: logger}
}

// Me handles GET /api/users/me. The identity comes from the auth middleware,
// never from the request itself.
func (h *userHandler) Me(c *gin.Context) {
	user := c.MustGet(middleware.CurrentUserKey).(*models.User)
	c.JSON(http.StatusOK, gin.H{"user": user})
}
