package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.GET("/claims/:id", UUIDValidator("id"), handler.GetClaim)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := common.ParseUUIDParam(c, paramName); err != nil {
			common.Respond(c, err)
			return
		}
		c.Next()
	}
}
