package modules

import "github.com/gin-gonic/gin"

// guarded returns the per-group session guard, or nothing when unset.
func guarded(guard gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return nil
	}
	return []gin.HandlerFunc{guard}
}
