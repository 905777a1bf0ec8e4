package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/models"
	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type PricingHandler struct {
	service *services.PricingService
}

func NewPricingHandler(db *gorm.DB) (*PricingHandler, error) {
	svc, err := services.NewPricingService(db)
	if err != nil {
		return nil, err
	}
	return &PricingHandler{service: svc}, nil
}

// GET /api/pricings
func (h *PricingHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	pricings, total, err := h.service.List(requestContext(c), services.ListPricingsInput{
		Page:     page,
		PerPage:  perPage,
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Location: c.Query("location"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, pricings, response.NewMeta(page, perPage, total))
}

// GET /api/pricings/:id
func (h *PricingHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pricing, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pricing)
}

type pricingRequest struct {
	ItemCode     string `json:"itemCode" validate:"required,min=1,max=64"`
	ItemCodeBase string `json:"itemCodeBase" validate:"max=64"`
	Category     string `json:"category" validate:"max=128"`
	SubCategory  string `json:"subCategory" validate:"max=128"`
	Location     string `json:"location" validate:"max=128"`

	Brand               string `json:"brand" validate:"max=128"`
	ProductName         string `json:"productName" validate:"max=256"`
	MaterialDescription string `json:"materialDescription" validate:"max=1024"`
	ReferenceImageURL   string `json:"referenceImageUrl" validate:"max=1024"`
	MaterialImageURL    string `json:"materialImageUrl" validate:"max=1024"`

	Quantity     int    `json:"quantity" validate:"min=0"`
	Comments     string `json:"comments" validate:"max=2048"`
	InternalNote string `json:"internalNote" validate:"max=2048"`

	ListPriceEUR      float64 `json:"listPriceEur"`
	ListPriceUSD      float64 `json:"listPriceUsd"`
	ListPriceRMB      float64 `json:"listPriceRmb"`
	ListPriceGBP      float64 `json:"listPriceGbp"`
	SupplierDiscount  float64 `json:"supplierDiscount"`
	CostLocalCurrency float64 `json:"costLocalCurrency"`
	ExchangeRate      float64 `json:"exchangeRate"`
	TargetGP          float64 `json:"targetGp"`
	UnitBudget        float64 `json:"unitBudget"`
	TotalBudget       float64 `json:"totalBudget"`
}

func (r pricingRequest) toModel() *models.ProductPricing {
	return &models.ProductPricing{
		ItemCode:            r.ItemCode,
		ItemCodeBase:        r.ItemCodeBase,
		Category:            r.Category,
		SubCategory:         r.SubCategory,
		Location:            r.Location,
		Brand:               r.Brand,
		ProductName:         r.ProductName,
		MaterialDescription: r.MaterialDescription,
		ReferenceImageURL:   r.ReferenceImageURL,
		MaterialImageURL:    r.MaterialImageURL,
		Quantity:            r.Quantity,
		Comments:            r.Comments,
		InternalNote:        r.InternalNote,
		ListPriceEUR:        r.ListPriceEUR,
		ListPriceUSD:        r.ListPriceUSD,
		ListPriceRMB:        r.ListPriceRMB,
		ListPriceGBP:        r.ListPriceGBP,
		SupplierDiscount:    r.SupplierDiscount,
		CostLocalCurrency:   r.CostLocalCurrency,
		ExchangeRate:        r.ExchangeRate,
		TargetGP:            r.TargetGP,
		UnitBudget:          r.UnitBudget,
		TotalBudget:         r.TotalBudget,
	}
}

// POST /api/pricings
func (h *PricingHandler) Create(c *gin.Context) {
	var body pricingRequest
	if !bindAndValidate(c, &body) {
		return
	}
	pricing, err := h.service.Create(requestContext(c), actorEmail(c), body.toModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pricing)
}

// PUT /api/pricings/:id
func (h *PricingHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body pricingRequest
	if !bindAndValidate(c, &body) {
		return
	}
	pricing, err := h.service.Update(requestContext(c), actorEmail(c), id, body.toModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pricing)
}

// DELETE /api/pricings/:id
func (h *PricingHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(requestContext(c), actorEmail(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GET /api/pricings/:id/histories
//
// ?column=listPriceEur narrows each entry to that snapshot field.
func (h *PricingHandler) Histories(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	entries, total, err := h.service.Histories(requestContext(c), id, page, perPage, c.Query("column"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, entries, response.NewMeta(page, perPage, total))
}
