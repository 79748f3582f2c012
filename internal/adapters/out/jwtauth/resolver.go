// Package jwtauth resolves HMAC-signed bearer tokens into actors.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretIsRequired = errors.New("jwt secret is required")
	ErrExpiredToken     = errors.New("token has expired")
)

// Claims carried by access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Resolver implements ports.IdentityResolver over HS256 tokens.
type Resolver struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewResolver(secretKey string, ttl time.Duration) (*Resolver, error) {
	if secretKey == "" {
		return nil, ErrSecretIsRequired
	}
	return &Resolver{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Resolve validates credential and returns the actor it names. Every failure
// wraps ports.ErrUnauthenticated.
func (r *Resolver) Resolve(_ context.Context, credential string) (actor.Actor, error) {
	if credential == "" {
		return actor.Actor{}, fmt.Errorf("%w: missing token", ports.ErrUnauthenticated)
	}

	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.secretKey, nil
	}, jwt.WithTimeFunc(r.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return actor.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, ErrExpiredToken)
		}
		return actor.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return actor.Actor{}, fmt.Errorf("%w: invalid claims", ports.ErrUnauthenticated)
	}

	userID, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	role, err := actor.ParseRole(claims.Role)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}

	who, err := actor.NewActor(userID, role)
	if err != nil {
		return actor.Actor{}, fmt.Errorf("%w: %w", ports.ErrUnauthenticated, err)
	}
	return who, nil
}

// Issue signs an access token for who. Used by operators and tests; user
// sign-up and login live outside this service.
func (r *Resolver) Issue(who actor.Actor) (string, time.Time, error) {
	if err := who.Validate(); err != nil {
		return "", time.Time{}, err
	}

	issuedAt := r.now()
	expiresAt := issuedAt.Add(r.ttl)
	claims := Claims{
		UserID: who.UserID().String(),
		Role:   who.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Subject:   who.UserID().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
