// Package handlers exposes the employee service over REST.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/employee/models"
	"hrms/internal/employee/service"
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
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("employee_handler")}
}

func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/employee", httpx.RequireAuth(h.tokens))
	v1.POST("", h.create)
	v1.PATCH("/:id", h.softUpdate)
	v1.DELETE("/:id", h.softDelete)
	v1.GET("", h.findAll)
	v1.GET("/:id", h.findByID)
	v1.GET("/by-auth-id/:authId", h.findByAuthID)
	v1.GET("/by-company-name/:companyName", h.findByCompanyName)
}

type createRequest struct {
	Name           string          `json:"name" binding:"required"`
	Surname        string          `json:"surname" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	PersonalEmail  string          `json:"personalEmail" binding:"required,email"`
	PhoneNumber    string          `json:"phoneNumber" binding:"required"`
	IdentityNumber string          `json:"identityNumber" binding:"required"`
	Address        string          `json:"address"`
	CompanyName    string          `json:"companyName" binding:"required"`
	Title          string          `json:"title"`
	Salary         float64         `json:"salary"`
	Photo          string          `json:"photo"`
	DateOfBirth    string          `json:"dateOfBirth"`
	Gender         messages.Gender `json:"gender"`
}

type updateRequest struct {
	Name           *string          `json:"name"`
	Surname        *string          `json:"surname"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	PersonalEmail  *string          `json:"personalEmail" binding:"omitempty,email"`
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

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	employee, err := h.svc.Create(c.Request.Context(), &models.EmployeeCreate{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		PersonalEmail:  req.PersonalEmail,
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Address:        req.Address,
		CompanyName:    req.CompanyName,
		Title:          req.Title,
		Salary:         req.Salary,
		Photo:          req.Photo,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
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
	employee, svcErr := h.svc.SoftUpdate(c.Request.Context(), &models.EmployeeUpdate{
		ID:             id,
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		PersonalEmail:  req.PersonalEmail,
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
	c.JSON(http.StatusOK, employee)
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
	employees, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *Handler) findByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	employee, svcErr := h.svc.FindByID(c.Request.Context(), id)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) findByAuthID(c *gin.Context) {
	authID, err := strconv.ParseInt(c.Param("authId"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	employee, svcErr := h.svc.FindByAuthID(c.Request.Context(), authID)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) findByCompanyName(c *gin.Context) {
	employees, err := h.svc.FindByCompanyName(c.Request.Context(), c.Param("companyName"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}
