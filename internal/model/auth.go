package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,max=32"`
	Password   string `json:"password" binding:"required,max=72"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Profile   `json:"user"`
}

// TokenClaims are the claims carried by a session token.
type TokenClaims struct {
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

func (c *TokenClaims) Identity() *Identity {
	return &Identity{
		UserID:     c.Subject,
		Name:       c.Name,
		Role:       c.Role,
		Department: c.Department,
	}
}
