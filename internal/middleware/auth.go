package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/auth"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
)

const (
	ContextIdentity = "identity"
	ContextClaims   = "claims"
)

// Resolver verifies a presented credential.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (*model.TokenClaims, error)
}

type AuthMiddleware struct {
	resolver Resolver
	policies Policies
}

func NewAuthMiddleware(resolver Resolver, policies Policies) *AuthMiddleware {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &AuthMiddleware{
		resolver: resolver,
		policies: policies,
	}
}

// Authenticate resolves the bearer token and stores the caller in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortWithError(c, errors.MissingCredential())
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, errors.InvalidCredential(fmt.Errorf("malformed authorization header")))
			return
		}

		claims, err := m.resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextIdentity, claims.Identity())
		c.Next()
	}
}

// Authorize enforces the policy of op. It must run after Authenticate.
func (m *AuthMiddleware) Authorize(op Operation) gin.HandlerFunc {
	policy := m.policies.For(op)
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		if identity == nil {
			abortWithError(c, errors.MissingCredential())
			return
		}
		if policy == PolicyAdmin {
			if err := auth.RequireRole(identity, model.RoleAdmin); err != nil {
				abortWithError(c, err)
				return
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the authenticated caller, or nil.
func IdentityFrom(c *gin.Context) *model.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}

func ClaimsFrom(c *gin.Context) *model.TokenClaims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*model.TokenClaims)
	return claims
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
