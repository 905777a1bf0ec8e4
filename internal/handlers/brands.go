package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type BrandHandler struct {
	service *services.BrandService
}

func NewBrandHandler(db *gorm.DB) (*BrandHandler, error) {
	svc, err := services.NewBrandService(db)
	if err != nil {
		return nil, err
	}
	return &BrandHandler{service: svc}, nil
}

// GET /api/brands
func (h *BrandHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	brands, total, err := h.service.List(requestContext(c), services.ListBrandsInput{
		Page:    page,
		PerPage: perPage,
		Name:    c.Query("name"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, brands, response.NewMeta(page, perPage, total))
}

// GET /api/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	brand, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

type brandRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Country  string `json:"country" validate:"max=64"`
	Discount int    `json:"discount" validate:"min=0,max=100"`
	Contact  string `json:"contact" validate:"max=256"`
}

// POST /api/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var body brandRequest
	if !bindAndValidate(c, &body) {
		return
	}
	brand, err := h.service.Create(requestContext(c), services.BrandInput{
		Name:     body.Name,
		Country:  body.Country,
		Discount: body.Discount,
		Contact:  body.Contact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brand)
}

// PUT /api/brands/:id
//
// Denials surface as 404 so callers cannot confirm the brand exists.
func (h *BrandHandler) Update(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body brandRequest
	if !bindAndValidate(c, &body) {
		return
	}

	brand, err := h.service.Update(requestContext(c), userID, id, services.BrandInput{
		Name:     body.Name,
		Country:  body.Country,
		Discount: body.Discount,
		Contact:  body.Contact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// DELETE /api/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(requestContext(c), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
