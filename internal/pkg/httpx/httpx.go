// Package httpx holds the gin helpers shared by every service: the error
// envelope that maps the errs taxonomy to HTTP status codes and the bearer
// token middleware.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/token"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes err as a JSON envelope with the status code matching its kind.
func Error(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), ErrorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrDuplicateField), errors.Is(err, errs.ErrAlreadyDeleted):
		return http.StatusConflict
	case errors.Is(err, errs.ErrAccountNotActive), errors.Is(err, errs.ErrAccountBanned):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

const claimsKey = "hrms-claims"

// RequireAuth validates the bearer token and stores its claims on the
// request context.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Error(c, errs.ErrInvalidToken)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			Error(c, errs.ErrInvalidToken)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			Error(c, err)
			return
		}
		if claims.Kind != token.KindSession {
			Error(c, errs.ErrInvalidToken)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the token claims stored by RequireAuth, if any.
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// Serve runs the handler until ctx is cancelled, then shuts down with a
// grace period.
func Serve(ctx context.Context, handler http.Handler, port int, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}
	go func() {
		logger.Info("http server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down http server", zap.Error(err))
	}
}
