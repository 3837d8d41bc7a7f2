package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipe-share-api/internal/container"
	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
)

// RecipeModule wires the recipe routes.
// POST   /api/recipes                   create (multipart, optional image)
// GET    /api/recipes                   list all
// GET    /api/recipes/user/:username    list by owner
// DELETE /api/recipes/user/:username    delete owned recipes by id
type RecipeModule struct {
	Handler *handlers.RecipeHandler
}

func NewRecipeModule(h *handlers.RecipeHandler) *RecipeModule {
	return &RecipeModule{Handler: h}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	writeLimiter := middleware.RateLimit(container.GetRedis(), cfg.WriteRateLimit, cfg.WriteRateWindow, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/recipes", writeLimiter, m.Handler.Create)
	rg.GET("/recipes", m.Handler.List)
	rg.GET("/recipes/user/:username", m.Handler.ListByUser)
	rg.DELETE("/recipes/user/:username", writeLimiter, m.Handler.DeleteByUser)
}
