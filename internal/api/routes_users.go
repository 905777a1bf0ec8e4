package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/handlers"
)

func registerUserRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewUserHandler(db)
	if err != nil {
		return err
	}
	permHandler, err := handlers.NewPermissionHandler(db)
	if err != nil {
		return err
	}

	users := api.Group("/users")
	{
		users.GET("", handler.List)
		users.POST("", handler.Create)
		users.GET("/:id", handler.Get)
		users.PUT("/:id", handler.Update)
		users.DELETE("/:id", handler.Delete)
		users.POST("/:id/roles", handler.AssignRole)
		users.DELETE("/:id/roles/:roleId", handler.RemoveRole)
	}

	perms := api.Group("/permissions")
	{
		perms.GET("", permHandler.List)
		perms.POST("", permHandler.Create)
		perms.PUT("/:id", permHandler.Update)
		perms.DELETE("/:id", permHandler.Delete)
	}

	return nil
}
