// Package errs defines the error taxonomy shared by every service.
// Services wrap these sentinels with fmt.Errorf("%w: ...") and HTTP handlers
// translate them with errors.Is.
package errs

import (
	"fmt"
)

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrDuplicateField     = fmt.Errorf("duplicate field")
	ErrAlreadyDeleted     = fmt.Errorf("already deleted")
	ErrAccountNotActive   = fmt.Errorf("account not active")
	ErrAccountBanned      = fmt.Errorf("account banned")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid token")
	ErrTokenNotCreated    = fmt.Errorf("token not created")
	ErrInvalidRole        = fmt.Errorf("invalid role")
	ErrInvalidInput       = fmt.Errorf("invalid input")
)
