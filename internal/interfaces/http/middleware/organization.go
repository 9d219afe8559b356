package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Context keys for organization information
const (
	OrganizationIDKey     = "organization_id"
	OrganizationCodeKey   = "organization_code"
	OrganizationHeaderKey = "X-Organization-ID"
)

// OrganizationInfo holds the extracted organization information
type OrganizationInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// OrganizationValidator defines the interface for validating an organization
type OrganizationValidator interface {
	ValidateOrganization(organizationID string) (*OrganizationInfo, error)
}

// OrganizationMiddlewareConfig holds configuration for organization middleware
type OrganizationMiddlewareConfig struct {
	// HeaderEnabled enables X-Organization-ID header extraction
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SubdomainEnabled enables subdomain extraction
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g., "hrms.example.com")
	BaseDomain string
	// SkipPaths are paths that don't require organization context (e.g., health check)
	SkipPaths []string
	// Required determines if organization context is mandatory
	Required bool
	// Validator is an optional validator to check if the organization exists and is active
	Validator OrganizationValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultOrganizationConfig returns default organization middleware configuration
func DefaultOrganizationConfig() OrganizationMiddlewareConfig {
	return OrganizationMiddlewareConfig{
		HeaderEnabled:    true,
		JWTEnabled:       true,
		SubdomainEnabled: false,
		BaseDomain:       "",
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:         true,
		Validator:        nil,
		Logger:           nil,
	}
}

// OrganizationMiddleware extracts organization information from the request
// Extraction order: JWT claims > X-Organization-ID header > subdomain
func OrganizationMiddleware() gin.HandlerFunc {
	return OrganizationMiddlewareWithConfig(DefaultOrganizationConfig())
}

// OrganizationMiddlewareWithConfig returns organization middleware with custom configuration
func OrganizationMiddlewareWithConfig(cfg OrganizationMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var orgID string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if jwtOrgID, exists := c.Get(JWTOrganizationIDKey); exists {
				if oid, ok := jwtOrgID.(string); ok && oid != "" {
					orgID = oid
					extractionMethod = "jwt"
				}
			}
		}

		// Priority 2: X-Organization-ID header
		if orgID == "" && cfg.HeaderEnabled {
			if headerOrgID := c.GetHeader(OrganizationHeaderKey); headerOrgID != "" {
				orgID = headerOrgID
				extractionMethod = "header"
			}
		}

		// Priority 3: Subdomain extraction
		if orgID == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" {
			if subdomainOrgID := extractOrganizationFromSubdomain(c.Request.Host, cfg.BaseDomain); subdomainOrgID != "" {
				orgID = subdomainOrgID
				extractionMethod = "subdomain"
			}
		}

		// Validate organization ID format if present
		if orgID != "" {
			if _, err := uuid.Parse(orgID); err != nil {
				respondUnauthorized(c, "Invalid organization ID format")
				return
			}
		}

		// Check if organization is required
		if orgID == "" && cfg.Required {
			respondUnauthorized(c, "Organization identification required")
			return
		}

		// Optional: Validate organization exists and is active
		var orgInfo *OrganizationInfo
		if orgID != "" && cfg.Validator != nil {
			var err error
			orgInfo, err = cfg.Validator.ValidateOrganization(orgID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Organization validation failed",
					zap.String("organization_id", orgID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive organization")
				return
			}
		}

		// Set organization information in context
		if orgID != "" {
			// Set in gin context for easy access in handlers
			c.Set(OrganizationIDKey, orgID)
			if orgInfo != nil {
				c.Set(OrganizationCodeKey, orgInfo.Code)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithOrganizationID(ctx, log, orgID)
			c.Request = c.Request.WithContext(ctx)

			// Log extraction method for debugging
			if cfg.Logger != nil {
				cfg.Logger.Debug("Organization identified",
					zap.String("organization_id", orgID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// extractOrganizationFromSubdomain extracts the organization code from the subdomain
// e.g., "acme.hrms.example.com" with baseDomain "hrms.example.com" returns "acme"
func extractOrganizationFromSubdomain(host, baseDomain string) string {
	// Remove port if present
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	// Check if host ends with base domain
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}

	// Extract subdomain
	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == host || subdomain == "" || subdomain == "www" {
		return ""
	}

	// Return the first part of subdomain (in case of multi-level subdomains)
	parts := strings.Split(subdomain, ".")
	return parts[0]
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetOrganizationID retrieves the organization ID from gin.Context
func GetOrganizationID(c *gin.Context) string {
	if orgID, exists := c.Get(OrganizationIDKey); exists {
		if oid, ok := orgID.(string); ok {
			return oid
		}
	}
	return ""
}

// GetOrganizationUUID retrieves the organization ID as UUID from gin.Context
func GetOrganizationUUID(c *gin.Context) (uuid.UUID, error) {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(orgID)
}

// GetOrganizationCode retrieves the organization code from gin.Context
func GetOrganizationCode(c *gin.Context) string {
	if code, exists := c.Get(OrganizationCodeKey); exists {
		if s, ok := code.(string); ok {
			return s
		}
	}
	return ""
}

// MustGetOrganizationID retrieves the organization ID or panics if not found
// Use this only in handlers where organization context is guaranteed to exist
func MustGetOrganizationID(c *gin.Context) string {
	orgID := GetOrganizationID(c)
	if orgID == "" {
		panic("organization_id not found in context")
	}
	return orgID
}

// MustGetOrganizationUUID retrieves the organization ID as UUID or panics if not found
func MustGetOrganizationUUID(c *gin.Context) uuid.UUID {
	orgUUID, err := GetOrganizationUUID(c)
	if err != nil || orgUUID == uuid.Nil {
		panic("valid organization_id not found in context")
	}
	return orgUUID
}

// OptionalOrganizationMiddleware creates middleware that doesn't require an organization
func OptionalOrganizationMiddleware() gin.HandlerFunc {
	cfg := DefaultOrganizationConfig()
	cfg.Required = false
	return OrganizationMiddlewareWithConfig(cfg)
}
