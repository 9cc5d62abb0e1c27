package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"civicreport/services"
	"civicreport/testutil"
)

func TestJWTVerifier(t *testing.T) {
	secret := []byte("test-secret")
	v := &services.JWTVerifier{Secret: secret}

	good, err := testutil.SignToken(secret, "a@x.com")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	id, err := v.Verify(context.Background(), good)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Email != "a@x.com" {
		t.Errorf("email = %q", id.Email)
	}

	wrongKey, _ := testutil.SignToken([]byte("other"), "a@x.com")
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}).SignedString(secret)
	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString(secret)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"email": "a@x.com"}).SignedString(secret)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"wrong key": wrongKey,
		"expired":   expired,
		"no email":  noEmail,
		"hs512":     hs512,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assertKind(t, err, services.ErrUnauthenticated)
		})
	}
}
