// Package passwords wraps bcrypt hashing for every service that stores
// credentials.
package passwords

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of the plaintext password.
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches reports whether plain corresponds to the stored hash.
func Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
