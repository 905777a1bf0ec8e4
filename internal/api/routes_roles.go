package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/handlers"
)

func registerRoleRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewRoleHandler(db)
	if err != nil {
		return err
	}

	roles := api.Group("/roles")
	{
		roles.GET("", handler.List)
		roles.POST("", handler.Create)
		roles.GET("/:id", handler.Get)
		roles.PUT("/:id", handler.Update)
		roles.DELETE("/:id", handler.Delete)

		roles.PUT("/:id/permissions", handler.SetPermissions)
		roles.GET("/:id/users", handler.ListUsers)

		roles.GET("/:id/pdfs", handler.ListPDFGrants)
		roles.PUT("/:id/pdfs", handler.UpsertPDFGrant)
		roles.DELETE("/:id/pdfs/:pdfId", handler.RemovePDFGrant)

		roles.GET("/:id/brands", handler.ListBrandGrants)
		roles.PUT("/:id/brands", handler.UpsertBrandGrant)
		roles.DELETE("/:id/brands/:brandId", handler.RemoveBrandGrant)
	}

	return nil
}
