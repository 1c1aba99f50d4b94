package internal

import (
	"net/http"
	"rpd/internal/controllers"
	"rpd/internal/providers"
	"rpd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/persona", http.HandlerFunc(apiController.GetPersona))
	routers.Get("/users", http.HandlerFunc(apiController.GetUsers))
	routers.Post("/refresh", http.HandlerFunc(apiController.RefreshPersona))
	return routers
}
