package handlers

import (
	"net/http"
	"strings"

	"billing-service/internal/httputil"
	"billing-service/internal/models"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

const claimsLocalKey = "collector_claims"

// AuthMiddleware verifies the collector's bearer token and stashes the
// claims for handlers downstream.
type AuthMiddleware struct {
	jwtService *services.JWTService
}

func NewAuthMiddleware(jwtService *services.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

func (m *AuthMiddleware) RequireCollector(c fiber.Ctx) error {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return c.Status(http.StatusUnauthorized).JSON(httputil.CreateErrorResponse("MISSING_TOKEN", "Authorization header is required"))
	}
	token := strings.TrimPrefix(tokenString, "Bearer ")

	claims, err := m.jwtService.VerifyToken(token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(httputil.CreateErrorResponse("INVALID_TOKEN", "Invalid or expired token"))
	}

	c.Locals(claimsLocalKey, claims)
	return c.Next()
}

// claimsFrom returns the verified claims placed by RequireCollector. A
// nil return means the route was wired without the middleware.
func claimsFrom(c fiber.Ctx) *models.Claims {
	claims, _ := c.Locals(claimsLocalKey).(*models.Claims)
	return claims
}
