// Package handlers exposes the company service over REST.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/company/models"
	"hrms/internal/company/service"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/token"
)

type Handler struct {
	svc    *service.Service
	tokens *token.Manager
	logger *zap.Logger
}

func New(svc *service.Service, tokens *token.Manager, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("company_handler")}
}

func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/company", httpx.RequireAuth(h.tokens))
	v1.POST("", h.save)
	v1.PATCH("/:id", h.softUpdate)
	v1.DELETE("/:id", h.softDelete)
	v1.GET("", h.findAll)
	v1.GET("/:id", h.findByID)
	v1.GET("/by-name/:companyName", h.findByCompanyName)
}

type saveRequest struct {
	CompanyName string  `json:"companyName" binding:"required"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	InfoEmail   string  `json:"infoEmail" binding:"required,email"`
	Address     string  `json:"address"`
	Logo        string  `json:"logo"`
	Revenue     float64 `json:"revenue"`
	Expense     float64 `json:"expense"`
	Salaries    float64 `json:"salaries"`
	Employees   int     `json:"employees"`
	Shifts      int     `json:"shifts"`
	Holidays    int     `json:"holidays"`
}

type updateRequest struct {
	CompanyName *string  `json:"companyName"`
	PhoneNumber *string  `json:"phoneNumber"`
	InfoEmail   *string  `json:"infoEmail" binding:"omitempty,email"`
	Address     *string  `json:"address"`
	Logo        *string  `json:"logo"`
	Revenue     *float64 `json:"revenue"`
	Expense     *float64 `json:"expense"`
	Salaries    *float64 `json:"salaries"`
	Employees   *int     `json:"employees"`
	Shifts      *int     `json:"shifts"`
	Holidays    *int     `json:"holidays"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	company, err := h.svc.Save(c.Request.Context(), &models.CompanySave{
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
		InfoEmail:   req.InfoEmail,
		Address:     req.Address,
		Logo:        req.Logo,
		Revenue:     req.Revenue,
		Expense:     req.Expense,
		Salaries:    req.Salaries,
		Employees:   req.Employees,
		Shifts:      req.Shifts,
		Holidays:    req.Holidays,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) softUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	company, err := h.svc.SoftUpdate(c.Request.Context(), &models.CompanyUpdate{
		ID:          c.Param("id"),
		CompanyName: req.CompanyName,
		PhoneNumber: req.PhoneNumber,
		InfoEmail:   req.InfoEmail,
		Address:     req.Address,
		Logo:        req.Logo,
		Revenue:     req.Revenue,
		Expense:     req.Expense,
		Salaries:    req.Salaries,
		Employees:   req.Employees,
		Shifts:      req.Shifts,
		Holidays:    req.Holidays,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) softDelete(c *gin.Context) {
	message, err := h.svc.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) findAll(c *gin.Context) {
	companies, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *Handler) findByID(c *gin.Context) {
	company, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) findByCompanyName(c *gin.Context) {
	company, err := h.svc.FindByCompanyName(c.Request.Context(), c.Param("companyName"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}
