package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type PDFHandler struct {
	service *services.PDFService
}

func NewPDFHandler(db *gorm.DB) (*PDFHandler, error) {
	svc, err := services.NewPDFService(db)
	if err != nil {
		return nil, err
	}
	return &PDFHandler{service: svc}, nil
}

// GET /api/pdfs
//
// Non-admin callers only see documents their roles hold a grant for.
func (h *PDFHandler) List(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	pdfs, total, err := h.service.List(requestContext(c), services.ListPDFsInput{
		ActorID: userID,
		Page:    page,
		PerPage: perPage,
		Name:    c.Query("name"),
		BrandID: uint(queryInt(c, "brandId", 0)),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, pdfs, response.NewMeta(page, perPage, total))
}

// GET /api/pdfs/:id
func (h *PDFHandler) Get(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pdf, err := h.service.Get(requestContext(c), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pdf)
}

type pdfRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=256"`
	PDFURL         string  `json:"pdfUrl" validate:"max=1024"`
	PageCount      int     `json:"pageCount" validate:"min=0"`
	DiscountFactor float64 `json:"discountFactor" validate:"min=0"`
	BrandID        *uint   `json:"brandId"`
}

// POST /api/pdfs
func (h *PDFHandler) Create(c *gin.Context) {
	var body pdfRequest
	if !bindAndValidate(c, &body) {
		return
	}
	pdf, err := h.service.Create(requestContext(c), services.PDFInput{
		Name:           body.Name,
		PDFURL:         body.PDFURL,
		PageCount:      body.PageCount,
		DiscountFactor: body.DiscountFactor,
		BrandID:        body.BrandID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pdf)
}

// PUT /api/pdfs/:id
//
// Requires a live edit grant; view-only callers get 404.
func (h *PDFHandler) Update(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body pdfRequest
	if !bindAndValidate(c, &body) {
		return
	}

	pdf, err := h.service.Update(requestContext(c), userID, id, services.PDFInput{
		Name:           body.Name,
		PDFURL:         body.PDFURL,
		PageCount:      body.PageCount,
		DiscountFactor: body.DiscountFactor,
		BrandID:        body.BrandID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pdf)
}

// DELETE /api/pdfs/:id
func (h *PDFHandler) Delete(c *gin.Context) {
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
