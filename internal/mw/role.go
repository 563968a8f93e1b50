package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleHeader carries the caller's role, supplied by the external
// authentication collaborator in front of this service.
const RoleHeader = "X-User-Role"

// Roles understood at the boundary.
const (
	RoleReceptionist = "receptionist"
	RoleFinance      = "finance"
	RoleAdmin        = "admin"
)

// RequireRole rejects requests whose role header is not one of the allowed
// roles. Role management itself lives outside this service; only the gate is
// enforced here.
func RequireRole(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetHeader(RoleHeader)
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
