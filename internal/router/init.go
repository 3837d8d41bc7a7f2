package router

import (
	"github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/container"
	handlers "github.com/oksasatya/recipe-share-api/internal/interface/http"
	"github.com/oksasatya/recipe-share-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	logger := container.GetLogger()
	store := container.GetRecords()

	userSvc := application.NewUserService(store, logger)
	recipeSvc := application.NewRecipeService(store, container.GetBlob(), logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewRecipeModule(handlers.NewRecipeHandler(recipeSvc, logger)))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
