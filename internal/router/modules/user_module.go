package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-share-api/internal/container"
	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
)

// UserModule wires the account routes.
// Public: POST /api/register, POST /api/login
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	authLimiter := middleware.RateLimit(container.GetRedis(), cfg.AuthRateLimit, cfg.AuthRateWindow, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", authLimiter, m.Handler.Register)
	rg.POST("/login", authLimiter, m.Handler.Login)
}
