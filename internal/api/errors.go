package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-pms-backend/internal/ledger"
)

// writeError maps domain errors onto HTTP status codes. Unclassified errors
// are logged and reported as a generic failure.
func writeError(c *gin.Context, err error) {
	switch {
	case ledger.IsValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case ledger.IsConflict(err), ledger.IsNoInventory(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case ledger.IsBusinessRule(err):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("api: %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
