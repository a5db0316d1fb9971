package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityConfig represents security headers configuration
type SecurityConfig struct {
	HSTS                  bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	FrameOptions          string
	ContentTypeOptions    string
	ReferrerPolicy        string
	CacheControl          string
	CSPDirectives         []string
}

// DefaultSecurityConfig suits a JSON API: nothing is framed, scripted or
// cached. HSTS is left to the TLS terminator unless enabled.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		FrameOptions:          "DENY",
		ContentTypeOptions:    "nosniff",
		ReferrerPolicy:        "no-referrer",
		CacheControl:          "no-store",
		CSPDirectives: []string{
			"default-src 'none'",
			"frame-ancestors 'none'",
		},
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders(config SecurityConfig) gin.HandlerFunc {
	csp := strings.Join(config.CSPDirectives, "; ")
	hsts := ""
	if config.HSTS {
		hsts = fmt.Sprintf("max-age=%d", config.HSTSMaxAge)
		if config.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(c *gin.Context) {
		if hsts != "" {
			c.Header("Strict-Transport-Security", hsts)
		}
		setIfNotEmpty(c, "X-Frame-Options", config.FrameOptions)
		setIfNotEmpty(c, "X-Content-Type-Options", config.ContentTypeOptions)
		setIfNotEmpty(c, "Referrer-Policy", config.ReferrerPolicy)
		setIfNotEmpty(c, "Cache-Control", config.CacheControl)
		setIfNotEmpty(c, "Content-Security-Policy", csp)

		c.Next()
	}
}

func setIfNotEmpty(c *gin.Context, key, value string) {
	if value != "" {
		c.Header(key, value)
	}
}
