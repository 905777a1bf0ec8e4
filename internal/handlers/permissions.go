package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type PermissionHandler struct {
	service *services.PermissionService
}

func NewPermissionHandler(db *gorm.DB) (*PermissionHandler, error) {
	svc, err := services.NewPermissionService(db)
	if err != nil {
		return nil, err
	}
	return &PermissionHandler{service: svc}, nil
}

// GET /api/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	perms, err := h.service.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perms)
}

type createPermissionRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=512"`
}

// POST /api/permissions
func (h *PermissionHandler) Create(c *gin.Context) {
	var body createPermissionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	perm, err := h.service.Create(requestContext(c), services.CreatePermissionInput{
		Code:        body.Code,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, perm)
}

type updatePermissionRequest struct {
	Description string `json:"description" validate:"max=512"`
}

// PUT /api/permissions/:id
func (h *PermissionHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body updatePermissionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	perm, err := h.service.Update(requestContext(c), id, body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, perm)
}

// DELETE /api/permissions/:id
func (h *PermissionHandler) Delete(c *gin.Context) {
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
