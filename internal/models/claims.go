package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Collector roles. Elevated roles may run the annual rollover and manage
// catalogs; plain collectors record payments.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleCollector  = "collector"
)

type Claims struct {
	jwt.RegisteredClaims
	CollectorID int64  `json:"collector_id"`
	Role        string `json:"role"`
}

func (c *Claims) Elevated() bool {
	return c.Role == RoleAdmin || c.Role == RoleSupervisor
}
