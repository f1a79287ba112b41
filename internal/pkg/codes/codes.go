// Package codes generates the random values the auth flows need: the
// anti-replay code embedded in session tokens and the one-off passwords
// handed to provisioned or reset accounts.
package codes

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	passwordLength  = 12
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!*-_"
)

// NewSessionCode returns the random code claim carried by session tokens so
// two logins of the same account never produce the same token.
func NewSessionCode() string {
	return uuid.NewString()
}

// NewPassword returns a random plaintext password for forgot-password resets
// and employee provisioning. The caller hashes it before storage; the
// plaintext only travels in the outbound mail message.
func NewPassword() string {
	buf := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a UUID so callers never receive an empty secret.
			return uuid.NewString()
		}
		buf[i] = passwordCharset[n.Int64()]
	}
	return string(buf)
}
