// Package handlers exposes the auth service over REST.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/auth/models"
	"hrms/internal/auth/service"
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
	return &Handler{svc: svc, tokens: tokens, logger: logger.Named("auth_handler")}
}

// Register mounts the auth routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/auth")
	v1.POST("/register/guest", h.guestRegister)
	v1.POST("/register/company", h.companyRegister)
	v1.GET("/activate", h.activate)
	v1.POST("/login", h.login)
	v1.POST("/forgot-password", h.forgotPassword)

	protected := v1.Group("", httpx.RequireAuth(h.tokens))
	protected.GET("/users", h.findAll)
	protected.GET("/users/:id", h.findByID)
	protected.DELETE("/users/:id", h.softDelete)
}

type guestRegisterRequest struct {
	Name        string          `json:"name" binding:"required"`
	Surname     string          `json:"surname" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Password    string          `json:"password" binding:"required,min=8"`
	PhoneNumber string          `json:"phoneNumber" binding:"required"`
	Gender      messages.Gender `json:"gender"`
}

func (h *Handler) guestRegister(c *gin.Context) {
	var req guestRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	identity, err := h.svc.GuestRegister(c.Request.Context(), models.GuestRegistration{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": identity.ID, "status": identity.Status})
}

type companyRegisterRequest struct {
	Name           string          `json:"name" binding:"required"`
	Surname        string          `json:"surname" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=8"`
	PhoneNumber    string          `json:"phoneNumber" binding:"required"`
	IdentityNumber string          `json:"identityNumber" binding:"required"`
	Address        string          `json:"address"`
	DateOfBirth    string          `json:"dateOfBirth"`
	CompanyName    string          `json:"companyName" binding:"required"`
	Gender         messages.Gender `json:"gender"`
}

func (h *Handler) companyRegister(c *gin.Context) {
	var req companyRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	identity, err := h.svc.CompanyRegister(c.Request.Context(), models.CompanyRegistration{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		Password:       req.Password,
		PhoneNumber:    req.PhoneNumber,
		IdentityNumber: req.IdentityNumber,
		Address:        req.Address,
		DateOfBirth:    req.DateOfBirth,
		CompanyName:    req.CompanyName,
		Gender:         req.Gender,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": identity.ID, "status": identity.Status})
}

func (h *Handler) activate(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		httpx.Error(c, errs.ErrInvalidToken)
		return
	}
	message, err := h.svc.ActivateByToken(c.Request.Context(), raw)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	message, err := h.svc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) findAll(c *gin.Context) {
	identities, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, identities)
}

func (h *Handler) findByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Error(c, errs.ErrInvalidInput)
		return
	}
	identity, svcErr := h.svc.FindByID(c.Request.Context(), id)
	if svcErr != nil {
		httpx.Error(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, identity)
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
