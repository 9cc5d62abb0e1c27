package testutil

import "github.com/golang-jwt/jwt/v5"

// SignToken issues an HS256 token carrying email, as accepted by
// services.JWTVerifier configured with the same secret.
func SignToken(secret []byte, email string) (string, error) {
	claims := jwt.MapClaims{"email": email, "sub": email}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
