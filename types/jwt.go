package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims shared between the auth service and middleware
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
