package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
)

// ErrorHandler обрабатывает ошибки централизованно: последняя ошибка из
// c.Errors превращается в конверт {"success":false,"error":{...}}.
// Внутренние ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		common.Respond(c, c.Errors.Last().Err)
	}
}
