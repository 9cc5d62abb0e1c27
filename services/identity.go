package services

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller.
type Identity struct {
	Email string
	UID   string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FirebaseVerifier checks Firebase ID tokens.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, newError(ErrUnauthenticated, "missing token")
	}
	tok, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &Error{Kind: ErrUnauthenticated, Msg: "invalid token", Err: err}
	}
	email, _ := tok.Claims["email"].(string)
	if email == "" {
		return nil, newError(ErrUnauthenticated, "token has no email claim")
	}
	return &Identity{Email: email, UID: tok.UID}, nil
}

// JWTVerifier checks HS256 tokens signed with a shared secret. Used for
// local runs and tests in place of Firebase.
type JWTVerifier struct {
	Secret []byte
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, newError(ErrUnauthenticated, "missing token")
	}
	claims := &identityClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, &Error{Kind: ErrUnauthenticated, Msg: "invalid token", Err: err}
	}
	if claims.Email == "" {
		return nil, newError(ErrUnauthenticated, "token has no email claim")
	}
	return &Identity{Email: claims.Email, UID: claims.Subject}, nil
}
