// Package handlers exposes the manager service over REST.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/manager/models"
	"hrms/internal/manager/service"
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
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("manager_handler")}
}

func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/manager", httpx.RequireAuth(h.tokens))
	v1.PATCH("/:id", h.softUpdate)
	v1.DELETE("/:id", h.softDelete)
	v1.GET("", h.findAll)
	v1.GET("/:id", h.findByID)
	v1.GET("/by-auth-id/:authId", h.findByAuthID)
	v1.GET("/by-company-id/:companyId", h.findByCompanyID)
	v1.GET("/by-company-name/:companyName", h.findByCompanyName)
}

type updateRequest struct {
	Name           *string          `json:"name"`
	Surname        *string          `json:"surname"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string          `json:"phoneNumber"`
	IdentityNumber *string          `json:"identityNumber"`
	Password       *string          `json:"password" binding:"omitempty,min=8"`
	Address        *string          `json:"address"`
	CompanyName    *string          `json:"companyName"`
	Title          *string          `json:"title"`
	Salary         *float64         `json:"salary"`
	Photo          *string          `json:"photo"`
	DateOfBirth    *string          `json:"dateOfBirth"`
	Gender         *messages.Gender `json:"gender"`
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
	manager, svcErr := h.svc.SoftUpdate(c.Request.Context(), &models.ManagerUpdate{
		ID:             id,
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Password:       req.Password,
		Address:        req.Address,
		CompanyName:    req.CompanyName,
		Title:          req.Title,
		Salary:         req.Salary,
		Photo:          req.Photo,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
	})
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, manager)
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
	managers, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

func (h *Handler) findByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	manager, svcErr := h.svc.FindByID(c.Request.Context(), id)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *Handler) findByAuthID(c *gin.Context) {
	authID, err := strconv.ParseInt(c.Param("authId"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	manager, svcErr := h.svc.FindByAuthID(c.Request.Context(), authID)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *Handler) findByCompanyID(c *gin.Context) {
	manager, err := h.svc.FindByCompanyID(c.Request.Context(), c.Param("companyId"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, manager)
}

func (h *Handler) findByCompanyName(c *gin.Context) {
	managers, err := h.svc.FindByCompanyName(c.Request.Context(), c.Param("companyName"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}
