// Package handlers exposes the admin service over REST.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/admin/models"
	"hrms/internal/admin/service"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/token"
)

type Handler struct {
	svc    *service.Service
	tokens *token.Manager
	logger *zap.Logger
}

func New(svc *service.Service, tokens *token.Manager, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("admin_handler")}
}

func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/admin", httpx.RequireAuth(h.tokens))
	v1.POST("", h.save)
	v1.PATCH("/:id", h.softUpdate)
	v1.DELETE("/:id", h.softDelete)
	v1.GET("", h.findAll)
	v1.GET("/:id", h.findByID)
	v1.GET("/by-auth-id/:authId", h.findByAuthID)
}

type saveRequest struct {
	Name           string          `json:"name" binding:"required"`
	Surname        string          `json:"surname" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	PhoneNumber    string          `json:"phoneNumber" binding:"required"`
	IdentityNumber string          `json:"identityNumber" binding:"required"`
	Password       string          `json:"password" binding:"required,min=8"`
	Address        string          `json:"address"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Gender         messages.Gender `json:"gender"`
}

type updateRequest struct {
	Name           *string          `json:"name"`
	Surname        *string          `json:"surname"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string          `json:"phoneNumber"`
	IdentityNumber *string          `json:"identityNumber"`
	Password       *string          `json:"password" binding:"omitempty,min=8"`
	Address        *string          `json:"address"`
	DateOfBirth    *string          `json:"dateOfBirth"`
	Gender         *messages.Gender `json:"gender"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	admin, err := h.svc.Save(c.Request.Context(), &models.AdminSave{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Password:       req.Password,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (h *Handler) softUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	admin, svcErr := h.svc.SoftUpdate(c.Request.Context(), &models.AdminUpdate{
		ID:             id,
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Password:       req.Password,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
	})
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *Handler) softDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	message, svcErr := h.svc.SoftDelete(c.Request.Context(), id)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) findAll(c *gin.Context) {
	admins, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (h *Handler) findByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	admin, svcErr := h.svc.FindByID(c.Request.Context(), id)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *Handler) findByAuthID(c *gin.Context) {
	authID, err := strconv.ParseInt(c.Param("authId"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	admin, svcErr := h.svc.FindByAuthID(c.Request.Context(), authID)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, admin)
}
