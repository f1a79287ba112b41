// Package token issues and validates the HMAC-signed JWTs used for login
// sessions and account activation links.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrms/internal/pkg/errs"
)

// Token kinds carried in the typ claim, so a session token cannot pass for
// an activation link or the other way round.
const (
	KindSession    = "session"
	KindActivation = "activation"
)

// Claims is the decoded content of an HRMS token.
type Claims struct {
	ID   int64
	Role string
	// Kind distinguishes session tokens from activation tokens.
	Kind string
	// Code is the anti-replay value present only in session tokens.
	Code string
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret        []byte
	issuer        string
	sessionTTL    time.Duration
	activationTTL time.Duration
}

func NewManager(secret, issuer string, sessionTTL, activationTTL time.Duration) *Manager {
	return &Manager{
		secret:        []byte(secret),
		issuer:        issuer,
		sessionTTL:    sessionTTL,
		activationTTL: activationTTL,
	}
}

// Session returns a short-lived login token carrying id, role and a random
// code claim.
func (m *Manager) Session(id int64, role, code string) (string, error) {
	return m.sign(jwt.MapClaims{
		"id":   id,
		"role": role,
		"typ":  KindSession,
		"code": code,
	}, m.sessionTTL)
}

// Activation returns the token embedded in account activation links.
func (m *Manager) Activation(id int64, role string) (string, error) {
	return m.sign(jwt.MapClaims{
		"id":   id,
		"role": role,
		"typ":  KindActivation,
	}, m.activationTTL)
}

func (m *Manager) sign(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["iss"] = m.issuer
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrTokenNotCreated, err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry, and returns the claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errs.ErrInvalidToken
	}

	id, ok := mapClaims["id"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing id claim", errs.ErrInvalidToken)
	}
	role, _ := mapClaims["role"].(string)
	kind, _ := mapClaims["typ"].(string)
	code, _ := mapClaims["code"].(string)

	return &Claims{ID: int64(id), Role: role, Kind: kind, Code: code}, nil
}
