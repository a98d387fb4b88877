package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/handlers"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/models"
	"github.com/atelierlocal/backend/internal/realtime"
)

type Deps struct {
	Authenticator         *authmw.Authenticator
	AuthHandler           *handlers.AuthHandler
	ClientHandler         *handlers.ClientHandler
	ArtisanHandler        *handlers.ArtisanHandler
	CategoryHandler       *handlers.CategoryHandler
	AskingHandler         *handlers.AskingHandler
	RecommendationHandler *handlers.RecommendationHandler
	MessageHandler        *handlers.MessageHandler
	UploadHandler         *handlers.UploadHandler
	AdminHandler          *handlers.AdminHandler
	SearchHandler         *handlers.SearchHandler
	Realtime              *realtime.Server
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(d.Authenticator.Middleware)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api-docs", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"title":   "Atelier Local API",
			"version": "v1",
		})
	})

	e.GET("/ws", d.Realtime.Handle)

	v1 := e.Group("/api/v1")

	v1.POST("/register/client", d.AuthHandler.RegisterClient)
	v1.POST("/register/artisan", d.AuthHandler.RegisterArtisan)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/categories", d.CategoryHandler.List)
	v1.GET("/artisans", d.ArtisanHandler.List)
	v1.GET("/artisans/:id", d.ArtisanHandler.Get)
	v1.GET("/artisans/:id/recommendations", d.RecommendationHandler.ListForArtisan)

	v1.PATCH("/artisans/:id", d.ArtisanHandler.Update)
	v1.GET("/clients/:id", d.ClientHandler.Get)
	v1.PATCH("/clients/:id", d.ClientHandler.Update)

	askings := v1.Group("/askings")
	askings.POST("", d.AskingHandler.Create)
	askings.GET("", d.AskingHandler.ListMine)
	askings.GET("/:id", d.AskingHandler.Get)
	askings.PATCH("/:id/status", d.AskingHandler.UpdateStatus)
	askings.POST("/:id/photos", d.UploadHandler.AskingPhoto)

	v1.POST("/recommendations", d.RecommendationHandler.Create)
	v1.GET("/messages/:peer", d.MessageHandler.History)
	v1.POST("/uploads/avatar", d.UploadHandler.Avatar)

	admin := v1.Group("/admin", authmw.Require(auth.RoleExactly(models.RoleAdmin)))
	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.POST("/users/:id/deactivate", d.AdminHandler.DeactivateUser)
	admin.POST("/categories", d.CategoryHandler.Create)
	admin.PATCH("/categories/:id", d.CategoryHandler.Update)
	admin.DELETE("/categories/:id", d.CategoryHandler.Delete)
}
