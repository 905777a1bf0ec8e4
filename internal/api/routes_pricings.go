package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/handlers"
)

func registerPricingRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewPricingHandler(db)
	if err != nil {
		return err
	}

	pricings := api.Group("/pricings")
	{
		pricings.GET("", handler.List)
		pricings.POST("", handler.Create)
		pricings.GET("/:id", handler.Get)
		pricings.PUT("/:id", handler.Update)
		pricings.DELETE("/:id", handler.Delete)
		pricings.GET("/:id/histories", handler.Histories)
	}

	return nil
}
