package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Expiry is reported distinctly so callers can map
// it to its own response.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Claims carried by both access and refresh tokens: the user id and role,
// nothing else.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer produces and verifies signed access/refresh token pairs. It is a
// pure function of its configuration; persistence of issued refresh tokens
// is the caller's concern.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an issuer from the shared signing secret and the two
// token lifetimes.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Access signs a short-lived access token for the user.
func (i *Issuer) Access(userID, role string) (string, error) {
	return i.sign(userID, role, i.accessTTL)
}

// Refresh signs a long-lived refresh token for the user.
func (i *Issuer) Refresh(userID, role string) (string, error) {
	return i.sign(userID, role, i.refreshTTL)
}

// Pair signs an access and a refresh token in one go.
func (i *Issuer) Pair(userID, role string) (access, refresh string, err error) {
	if access, err = i.Access(userID, role); err != nil {
		return "", "", err
	}
	if refresh, err = i.Refresh(userID, role); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (i *Issuer) sign(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token signed by this issuer. Expired tokens
// return ErrExpired; anything else that fails validation returns ErrInvalid.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
