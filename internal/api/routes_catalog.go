package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/handlers"
)

func registerCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	brandHandler, err := handlers.NewBrandHandler(db)
	if err != nil {
		return err
	}
	pdfHandler, err := handlers.NewPDFHandler(db)
	if err != nil {
		return err
	}

	brands := api.Group("/brands")
	{
		brands.GET("", brandHandler.List)
		brands.POST("", brandHandler.Create)
		brands.GET("/:id", brandHandler.Get)
		brands.PUT("/:id", brandHandler.Update)
		brands.DELETE("/:id", brandHandler.Delete)
	}

	pdfs := api.Group("/pdfs")
	{
		pdfs.GET("", pdfHandler.List)
		pdfs.POST("", pdfHandler.Create)
		pdfs.GET("/:id", pdfHandler.Get)
		pdfs.PUT("/:id", pdfHandler.Update)
		pdfs.DELETE("/:id", pdfHandler.Delete)
	}

	return nil
}
