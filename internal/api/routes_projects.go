package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/handlers"
)

func registerProjectRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewProjectHandler(db)
	if err != nil {
		return err
	}

	projects := api.Group("/projects")
	{
		projects.GET("", handler.List)
		projects.POST("", handler.Create)
		projects.GET("/:id", handler.Get)
		projects.PUT("/:id", handler.Update)
		projects.DELETE("/:id", handler.Delete)

		projects.GET("/:id/regions", handler.ListRegions)
		projects.POST("/:id/regions", handler.CreateRegion)
		projects.PUT("/:id/regions/:regionId", handler.UpdateRegion)
		projects.DELETE("/:id/regions/:regionId", handler.DeleteRegion)

		projects.GET("/:id/regions/:regionId/versions", handler.ListVersions)
		projects.POST("/:id/regions/:regionId/versions", handler.CreateVersion)
		projects.PUT("/:id/regions/:regionId/versions/:versionId", handler.UpdateVersion)
		projects.DELETE("/:id/regions/:regionId/versions/:versionId", handler.DeleteVersion)
	}

	return nil
}
