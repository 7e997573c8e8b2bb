// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package auth issues and verifies the two kinds of bearer tokens the
// service accepts: full-privilege admin tokens for advisors and staff, and
// narrow meeting-access tokens scoped to a single booking.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/advisorly/consult-service/internal/domain"
)

// PurposeMeetingAccess is the purpose claim carried by meeting-access tokens.
// Verification rejects tokens issued for any other purpose so an admin token
// can never be replayed on the client surface by claim shape alone.
const PurposeMeetingAccess = "meeting_access"

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// AdminIdentity is who an admin token is issued to.
type AdminIdentity struct {
	ID    string
	Email string
	Role  string
}

// AdminClaims are the claims carried by an admin session token.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// MeetingAccessClaims are the claims carried by a per-booking meeting-access token.
type MeetingAccessClaims struct {
	BookingUID string `json:"booking_uid"`
	Purpose    string `json:"purpose"`
	jwt.RegisteredClaims
}

// Config holds the configuration for the token issuer.
type Config struct {
	// Secret is the HMAC signing key shared by all instances.
	Secret string
	// TokenTTL overrides the default token lifetime. Zero means DefaultTokenTTL.
	TokenTTL time.Duration
}

// Issuer signs and verifies tokens. Pure crypto, no I/O.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates a new token issuer.
func NewIssuer(config Config) (*Issuer, error) {
	if config.Secret == "" {
		return nil, fmt.Errorf("token signing secret is required")
	}
	ttl := config.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{
		secret: []byte(config.Secret),
		ttl:    ttl,
	}, nil
}

// IssueAdminToken signs a full-privilege session token for an advisor or staff user.
func (i *Issuer) IssueAdminToken(identity AdminIdentity) (string, error) {
	now := time.Now().UTC()
	claims := AdminClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

// IssueMeetingAccessToken signs a narrow token letting an unauthenticated
// client perform actions scoped to a single booking.
func (i *Issuer) IssueMeetingAccessToken(bookingUID string) (string, error) {
	now := time.Now().UTC()
	claims := MeetingAccessClaims{
		BookingUID: bookingUID,
		Purpose:    PurposeMeetingAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign meeting access token: %w", err)
	}
	return signed, nil
}

// VerifyAdminToken checks signature and expiry of an admin token.
// It proves authenticity only; authorization checks stay with the caller.
func (i *Issuer) VerifyAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := i.parse(tokenString, claims); err != nil {
		return nil, err
	}
	// A meeting access token parses into AdminClaims with an empty email;
	// that must never pass as an admin session.
	if claims.Email == "" {
		return nil, domain.NewUnauthorizedError("token is not an admin token")
	}
	return claims, nil
}

// VerifyMeetingAccessToken checks signature, expiry, and purpose of a
// meeting-access token. Callers must additionally check that the booking
// claim matches the booking being acted on.
func (i *Issuer) VerifyMeetingAccessToken(tokenString string) (*MeetingAccessClaims, error) {
	claims := &MeetingAccessClaims{}
	if err := i.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeMeetingAccess {
		return nil, domain.NewUnauthorizedError("token is not a meeting access token")
	}
	return claims, nil
}

func (i *Issuer) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return domain.NewUnauthorizedError("invalid token", err)
	}
	if !token.Valid {
		return domain.NewUnauthorizedError("invalid token")
	}
	return nil
}
