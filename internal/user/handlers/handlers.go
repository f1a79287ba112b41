// Package handlers exposes the user directory over REST.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/token"
	"hrms/internal/user/models"
	"hrms/internal/user/service"
)

type Handler struct {
	svc    *service.Service
	tokens *token.Manager
	logger *zap.Logger
}

func New(svc *service.Service, tokens *token.Manager, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("user_handler")}
}

func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/user", httpx.RequireAuth(h.tokens))
	v1.POST("/employee", h.insertEmployee)
	v1.PATCH("/by-auth-id/:authId", h.updateProfileInfo)
	v1.GET("/by-auth-id/:authId", h.findByAuthID)
	v1.GET("/head-count", h.headCount)
	v1.GET("/employees", h.employeeRoster)
}

type employeeInsertRequest struct {
	Username    string          `json:"username" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Surname     string          `json:"surname" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	PhoneNumber string          `json:"phoneNumber"`
	Gender      messages.Gender `json:"gender"`
}

type profileInfoRequest struct {
	Name        *string          `json:"name"`
	Surname     *string          `json:"surname"`
	Email       *string          `json:"email" binding:"omitempty,email"`
	PhoneNumber *string          `json:"phoneNumber"`
	Gender      *messages.Gender `json:"gender"`
}

func (h *Handler) insertEmployee(c *gin.Context) {
	var req employeeInsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	user, err := h.svc.InsertEmployee(c.Request.Context(), &models.EmployeeInsert{
		Username:    req.Username,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) updateProfileInfo(c *gin.Context) {
	authID, err := strconv.ParseInt(c.Param("authId"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	var req profileInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	user, svcErr := h.svc.UpdateProfileInfo(c.Request.Context(), &models.ProfileInfoUpdate{
		AuthID:      authID,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	})
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) findByAuthID(c *gin.Context) {
	authID, err := strconv.ParseInt(c.Param("authId"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	user, svcErr := h.svc.FindByAuthID(c.Request.Context(), authID)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) headCount(c *gin.Context) {
	count, err := h.svc.HeadCount(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, count)
}

func (h *Handler) employeeRoster(c *gin.Context) {
	roster, err := h.svc.EmployeeRoster(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}
