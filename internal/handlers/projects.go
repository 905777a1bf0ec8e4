package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) (*ProjectHandler, error) {
	svc, err := services.NewProjectService(db)
	if err != nil {
		return nil, err
	}
	return &ProjectHandler{service: svc}, nil
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	projects, total, err := h.service.List(requestContext(c), page, perPage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, projects, response.NewMeta(page, perPage, total))
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	project, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=256"`
	Description string `json:"description" validate:"max=1024"`
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var body projectRequest
	if !bindAndValidate(c, &body) {
		return
	}
	project, err := h.service.Create(requestContext(c), services.ProjectInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body projectRequest
	if !bindAndValidate(c, &body) {
		return
	}
	project, err := h.service.Update(requestContext(c), id, services.ProjectInput{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
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

type regionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=1024"`
	Manager     string `json:"manager" validate:"max=128"`
	Status      string `json:"status" validate:"omitempty,oneof=active archived"`
}

// GET /api/projects/:id/regions
func (h *ProjectHandler) ListRegions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regions, err := h.service.ListRegions(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, regions)
}

// POST /api/projects/:id/regions
func (h *ProjectHandler) CreateRegion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body regionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	region, err := h.service.CreateRegion(requestContext(c), id, services.RegionInput{
		Name:        body.Name,
		Description: body.Description,
		Manager:     body.Manager,
		Status:      body.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, region)
}

// PUT /api/projects/:id/regions/:regionId
func (h *ProjectHandler) UpdateRegion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	var body regionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	region, err := h.service.UpdateRegion(requestContext(c), id, regionID, services.RegionInput{
		Name:        body.Name,
		Description: body.Description,
		Manager:     body.Manager,
		Status:      body.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, region)
}

// DELETE /api/projects/:id/regions/:regionId
func (h *ProjectHandler) DeleteRegion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	if err := h.service.DeleteRegion(requestContext(c), id, regionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type versionRequest struct {
	Version     string `json:"version" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"max=1024"`
	Creator     string `json:"creator" validate:"max=128"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
	FileURL     string `json:"fileUrl" validate:"max=1024"`
	FileSize    int64  `json:"fileSize" validate:"min=0"`
}

// GET /api/projects/:id/regions/:regionId/versions
func (h *ProjectHandler) ListVersions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	versions, err := h.service.ListVersions(requestContext(c), id, regionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, versions)
}

// POST /api/projects/:id/regions/:regionId/versions
func (h *ProjectHandler) CreateVersion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	var body versionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	version, err := h.service.CreateVersion(requestContext(c), id, regionID, services.VersionInput{
		Version:     body.Version,
		Description: body.Description,
		Creator:     body.Creator,
		Status:      body.Status,
		FileURL:     body.FileURL,
		FileSize:    body.FileSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, version)
}

// PUT /api/projects/:id/regions/:regionId/versions/:versionId
func (h *ProjectHandler) UpdateVersion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	versionID, ok := uintParam(c, "versionId")
	if !ok {
		return
	}
	var body versionRequest
	if !bindAndValidate(c, &body) {
		return
	}
	version, err := h.service.UpdateVersion(requestContext(c), id, regionID, versionID, services.VersionInput{
		Version:     body.Version,
		Description: body.Description,
		Creator:     body.Creator,
		Status:      body.Status,
		FileURL:     body.FileURL,
		FileSize:    body.FileSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, version)
}

// DELETE /api/projects/:id/regions/:regionId/versions/:versionId
func (h *ProjectHandler) DeleteVersion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := uintParam(c, "regionId")
	if !ok {
		return
	}
	versionID, ok := uintParam(c, "versionId")
	if !ok {
		return
	}
	if err := h.service.DeleteVersion(requestContext(c), id, regionID, versionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
