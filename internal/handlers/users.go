package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricedesk/pricedesk/internal/services"
	"github.com/pricedesk/pricedesk/pkg/response"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(db *gorm.DB) (*UserHandler, error) {
	svc, err := services.NewUserService(db)
	if err != nil {
		return nil, err
	}
	return &UserHandler{service: svc}, nil
}

// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "perPage", 20)

	users, total, err := h.service.List(requestContext(c), services.ListUsersInput{
		Page:    page,
		PerPage: perPage,
		Query:   c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, response.NewMeta(page, perPage, total))
}

// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=128"`
	RoleIDs  []uint `json:"roleIds"`
}

// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Create(requestContext(c), services.CreateUserInput{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
		RoleIDs:  body.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"max=128"`
	Phone    string `json:"phone" validate:"max=32"`
	Avatar   string `json:"avatar" validate:"max=512"`
	Bio      string `json:"bio" validate:"max=1024"`
	Password string `json:"password" validate:"omitempty,min=8"`
	RoleIDs  []uint `json:"roleIds"`
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body updateUserRequest
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.service.Update(requestContext(c), id, services.UpdateUserInput{
		Name:     body.Name,
		Phone:    body.Phone,
		Avatar:   body.Avatar,
		Bio:      body.Bio,
		Password: body.Password,
		RoleIDs:  body.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
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

type assignRoleRequest struct {
	RoleID uint `json:"roleId" validate:"required"`
}

// POST /api/users/:id/roles
func (h *UserHandler) AssignRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var body assignRoleRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if err := h.service.AssignRole(requestContext(c), id, body.RoleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

// DELETE /api/users/:id/roles/:roleId
func (h *UserHandler) RemoveRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := uintParam(c, "roleId")
	if !ok {
		return
	}
	if err := h.service.RemoveRole(requestContext(c), id, roleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}
