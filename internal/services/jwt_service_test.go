package services

import (
	"testing"
	"time"

	"billing-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	token, err := jwtService.GenerateToken(7, models.RoleCollector, time.Hour)
	assert.NoError(t, err)

	claims, err := jwtService.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.CollectorID)
	assert.Equal(t, models.RoleCollector, claims.Role)
	assert.False(t, claims.Elevated())
}

func TestJWTService_ElevatedRoles(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	for _, role := range []string{models.RoleAdmin, models.RoleSupervisor} {
		token, err := jwtService.GenerateToken(1, role, time.Hour)
		assert.NoError(t, err)

		claims, err := jwtService.VerifyToken(token)
		assert.NoError(t, err)
		assert.True(t, claims.Elevated(), "role %s", role)
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(1, models.RoleCollector, time.Hour)
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	jwtService := NewJWTService("test-secret")

	token, err := jwtService.GenerateToken(1, models.RoleCollector, -time.Minute)
	assert.NoError(t, err)

	_, err = jwtService.VerifyToken(token)
	assert.Error(t, err)
}
