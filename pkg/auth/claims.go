package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the only role allowed on the back office order endpoints.
const RoleAdmin = "admin"

// AdminClaims is the payload of a back office bearer token. Subject carries the
// operator identifier used in audit logs.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
