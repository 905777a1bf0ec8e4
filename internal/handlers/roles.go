package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler(db *gorm.DB) (*RoleHandler, error) {
	svc, err := services.NewRoleService(db)
	if err != nil {
		return nil, err
	}
	return &RoleHandler{service: svc}, nil
}

// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	roles, total, err := h.service.List(requestContext(c), page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, roles, response.NewMeta(page, perPage, total))
}

// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	role, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

type roleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=64"`
	Description string `json:"description" validate:"max=512"`
}

// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var body roleRequest
	if !bindAndValidate(c, &body) {
		return
	}
	role, err := h.service.Create(requestContext(c), services.CreateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body roleRequest
	if !bindAndValidate(c, &body) {
		return
	}
	role, err := h.service.Update(requestContext(c), id, services.CreateRoleInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type setPermissionsRequest struct {
	PermissionIDs []uint `json:"permissionIds"`
}

// PUT /api/roles/:id/permissions
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body setPermissionsRequest
	if !bindAndValidate(c, &body) {
		return
	}
	role, err := h.service.SetPermissions(requestContext(c), id, body.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// GET /api/roles/:id/users
func (h *RoleHandler) ListUsers(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	users, err := h.service.ListUsers(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// GET /api/roles/:id/pdfs
func (h *RoleHandler) ListPDFGrants(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	grants, err := h.service.ListPDFGrants(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grants)
}

type pdfGrantRequest struct {
	PDFID   uint `json:"pdfId" validate:"required"`
	CanEdit bool `json:"canEdit"`
}

// PUT /api/roles/:id/pdfs
func (h *RoleHandler) UpsertPDFGrant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body pdfGrantRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if err := h.service.UpsertPDFGrant(requestContext(c), id, body.PDFID, body.CanEdit); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"granted": true})
}

// DELETE /api/roles/:id/pdfs/:pdfId
func (h *RoleHandler) RemovePDFGrant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pdfID, ok := uintParam(c, "pdfId")
	if !ok {
		return
	}
	if err := h.service.RemovePDFGrant(requestContext(c), id, pdfID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}

// GET /api/roles/:id/brands
func (h *RoleHandler) ListBrandGrants(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	grants, err := h.service.ListBrandGrants(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grants)
}

type brandGrantRequest struct {
	BrandID uint `json:"brandId" validate:"required"`
}

// PUT /api/roles/:id/brands
func (h *RoleHandler) UpsertBrandGrant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body brandGrantRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if err := h.service.UpsertBrandGrant(requestContext(c), id, body.BrandID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"granted": true})
}

// DELETE /api/roles/:id/brands/:brandId
func (h *RoleHandler) RemoveBrandGrant(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	brandID, ok := uintParam(c, "brandId")
	if !ok {
		return
	}
	if err := h.service.RemoveBrandGrant(requestContext(c), id, brandID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
